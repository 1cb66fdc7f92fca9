// Package config provides centralized configuration management for the
// credit risk dashboard.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file named by CREDIT_CONFIG, or config.yaml / configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern CREDIT_<SECTION>_<FIELD>:
//
//	CREDIT_SERVER_PORT=8080
//	CREDIT_DATA_PATH=data/credit_customers.csv
//	CREDIT_MODEL_SEED=42
//	CREDIT_MODEL_PARALLELISM=4
//	CREDIT_LOGGING_LEVEL=debug
//	CREDIT_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,http://localhost:8080
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
