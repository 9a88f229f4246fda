package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func TestFromConfigCopiesRegion(t *testing.T) {
	s := FromConfig(aws.Config{Region: "ap-south-1"})
	if s.Region() != "ap-south-1" {
		t.Errorf("expected ap-south-1, got %s", s.Region())
	}

	cfg := s.Config()
	cfg.Region = "eu-west-1"
	if s.Config().Region != "ap-south-1" {
		t.Error("mutating a returned config must not change the session")
	}
}
