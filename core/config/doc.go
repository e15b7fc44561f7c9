// Package config loads the application configuration.
//
// Values come, in increasing priority, from struct tag defaults, an optional
// config.yaml, the process environment and an optional .env file. Nested
// keys map to upper-case variables joined by underscores, so storage.endpoint
// is read from STORAGE_ENDPOINT.
//
// # Sections
//
//   - Server: gateway port, API key and limits
//   - Storage: backend selection, endpoint, credentials and timeouts
//   - Log: level, format and output
//   - Database: journal database connection
//   - Journal: operation recording
//   - Sample: walkthrough bucket prefix, key and listing prefix
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Endpoint)
//
// Settings flattens a loaded Config into its keys, environment variable
// names, defaults and values. Fields tagged secret:"true" are masked by
// Setting.Masked.
package config
