// Package config provides centralized configuration for the nycsales pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file (explicit --config path, nycsales.yaml or configs/nycsales.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern NYCSALES_<SECTION>_<FIELD>:
//
//	NYCSALES_INPUT_DIR=/data/rolling-sales
//	NYCSALES_INPUT_YEARS=2018,2019
//	NYCSALES_OUTPUT_DIR=reports
//	NYCSALES_PROCESSING_CONCURRENCY=2
//	NYCSALES_LOGGING_LEVEL=debug
//
// The header offset table can only be changed from the YAML file:
//
//	input:
//	  header_offsets:
//	    - {from_year: 2018, to_year: 2019, offset: 4}
//	    - {from_year: 2020, to_year: 2021, offset: 6}
//
// # Validation
//
// Load validates struct tags with go-playground/validator and checks that
// every configured year is covered by exactly one header offset rule.
package config
