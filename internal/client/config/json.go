package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tgcloud/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	Backend     string `json:"backend"`
	APIID       int    `json:"api_id"`
	APIHash     string `json:"api_hash"`
	SessionFile string `json:"session_file"`
	StorePath   string `json:"store_path"`
	Phone       string `json:"phone"`
	LogLevel    string `json:"log_level"`

	S3 struct {
		Bucket          string `json:"bucket"`
		Region          string `json:"region"`
		Endpoint        string `json:"endpoint"`
		Prefix          string `json:"prefix"`
		AccessKeyID     string `json:"access_key_id"`
		SecretAccessKey string `json:"secret_access_key"`
	} `json:"s3"`
}

// parseJson overlays cfg with the JSON file named by -c or -config in args.
// Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.Backend, jc.Backend)
	if jc.APIID != 0 {
		cfg.APIID = jc.APIID
	}
	setString(&cfg.APIHash, jc.APIHash)
	setString(&cfg.SessionFile, jc.SessionFile)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.Phone, jc.Phone)
	setString(&cfg.LogLevel, jc.LogLevel)

	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.Prefix, jc.S3.Prefix)
	setString(&cfg.S3.AccessKeyID, jc.S3.AccessKeyID)
	setString(&cfg.S3.SecretAccessKey, jc.S3.SecretAccessKey)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
