package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// lookupFunc has the shape of os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// envLookup resolves variables from the process environment first and falls
// back to the dotenv file at path. The process environment is not modified.
// A missing file is not an error.
func envLookup(path string) (lookupFunc, error) {
	file, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		file = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

// parseEnv overlays cfg with environment variables:
//
//	API_ID, API_HASH, SESSION_NAME
//	TGCLOUD_BACKEND, TGCLOUD_STORE, TGCLOUD_PHONE, TGCLOUD_LOG_LEVEL
//	S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_PREFIX,
//	S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY
//
// Empty values are ignored.
func parseEnv(cfg *Config, lookup lookupFunc) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get("API_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("API_ID must be a number: %w", err)
		}
		cfg.APIID = id
	}
	setString(&cfg.APIHash, get("API_HASH"))
	setString(&cfg.SessionFile, get("SESSION_NAME"))

	setString(&cfg.Backend, strings.ToLower(get("TGCLOUD_BACKEND")))
	setString(&cfg.StorePath, get("TGCLOUD_STORE"))
	setString(&cfg.Phone, get("TGCLOUD_PHONE"))
	setString(&cfg.LogLevel, get("TGCLOUD_LOG_LEVEL"))

	setString(&cfg.S3.Bucket, get("S3_BUCKET"))
	setString(&cfg.S3.Region, get("S3_REGION"))
	setString(&cfg.S3.Endpoint, get("S3_ENDPOINT"))
	setString(&cfg.S3.Prefix, get("S3_PREFIX"))
	setString(&cfg.S3.AccessKeyID, get("S3_ACCESS_KEY_ID"))
	setString(&cfg.S3.SecretAccessKey, get("S3_SECRET_ACCESS_KEY"))
	return nil
}
