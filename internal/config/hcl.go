package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// hclFile mirrors Config for HCL input. Every block and attribute is
// optional; only values present in the file override the defaults.
type hclFile struct {
	Version *string `hcl:"version,optional"`

	Target *struct {
		InstanceID       *string `hcl:"instance_id,optional"`
		BucketName       *string `hcl:"bucket_name,optional"`
		SizeStorageType  *string `hcl:"size_storage_type,optional"`
		CountStorageType *string `hcl:"count_storage_type,optional"`
		RequestFilterID  *string `hcl:"request_filter_id,optional"`
	} `hcl:"target,block"`

	AWS *struct {
		Region  *string `hcl:"region,optional"`
		Profile *string `hcl:"profile,optional"`
	} `hcl:"aws,block"`

	Thresholds *struct {
		CPUPercent      *float64 `hcl:"cpu_percent,optional"`
		NetworkMB       *float64 `hcl:"network_mb,optional"`
		MinBucketGB     *float64 `hcl:"min_bucket_gb,optional"`
		MinObjectCount  *int64   `hcl:"min_object_count,optional"`
		MinRequestCount *int64   `hcl:"min_request_count,optional"`
	} `hcl:"thresholds,block"`

	Cost *struct {
		LookbackDays *int    `hcl:"lookback_days,optional"`
		Service      *string `hcl:"service,optional"`
	} `hcl:"cost,block"`

	Output *struct {
		DefaultFormat *string `hcl:"default_format,optional"`
		NoColor       *bool   `hcl:"no_color,optional"`
	} `hcl:"output,block"`

	Logging *struct {
		Level       *string `hcl:"level,optional"`
		Format      *string `hcl:"format,optional"`
		Output      *string `hcl:"output,optional"`
		Development *bool   `hcl:"development,optional"`
	} `hcl:"logging,block"`

	Timeouts *struct {
		CallSeconds *int `hcl:"call_seconds,optional"`
	} `hcl:"timeouts,block"`

	Server *struct {
		Addr *string `hcl:"addr,optional"`
	} `hcl:"server,block"`
}

func decodeHCL(filename string, src []byte, c *Config) error {
	var f hclFile
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return err
	}

	set(&c.Version, f.Version)
	if t := f.Target; t != nil {
		set(&c.Target.InstanceID, t.InstanceID)
		set(&c.Target.BucketName, t.BucketName)
		set(&c.Target.SizeStorageType, t.SizeStorageType)
		set(&c.Target.CountStorageType, t.CountStorageType)
		set(&c.Target.RequestFilterID, t.RequestFilterID)
	}
	if a := f.AWS; a != nil {
		set(&c.AWS.Region, a.Region)
		set(&c.AWS.Profile, a.Profile)
	}
	if t := f.Thresholds; t != nil {
		set(&c.Thresholds.CPUPercent, t.CPUPercent)
		set(&c.Thresholds.NetworkMB, t.NetworkMB)
		set(&c.Thresholds.MinBucketGB, t.MinBucketGB)
		set(&c.Thresholds.MinObjectCount, t.MinObjectCount)
		set(&c.Thresholds.MinRequestCount, t.MinRequestCount)
	}
	if o := f.Cost; o != nil {
		set(&c.Cost.LookbackDays, o.LookbackDays)
		set(&c.Cost.Service, o.Service)
	}
	if o := f.Output; o != nil {
		set(&c.Output.DefaultFormat, o.DefaultFormat)
		set(&c.Output.NoColor, o.NoColor)
	}
	if l := f.Logging; l != nil {
		set(&c.Logging.Level, l.Level)
		set(&c.Logging.Format, l.Format)
		set(&c.Logging.Output, l.Output)
		set(&c.Logging.Development, l.Development)
	}
	if t := f.Timeouts; t != nil {
		set(&c.Timeouts.CallSeconds, t.CallSeconds)
	}
	if s := f.Server; s != nil {
		set(&c.Server.Addr, s.Addr)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
