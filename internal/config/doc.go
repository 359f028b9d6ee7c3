// Package config provides configuration loading for viewroute.
//
// The configuration is stored in viewroute.json or viewroute.toml in the
// working directory, or any file passed with --config. Environment variables
// override file values; BASE_URL sets the deployment base URL.
//
// # Configuration File Structure
//
//	{
//	  "base": "/app/",
//	  "addr": ":8080",
//	  "log": {"level": "info", "format": "json"},
//	  "views": {
//	    "source": "s3",
//	    "bucket": "my-views",
//	    "prefix": "views/",
//	    "region": "eu-west-1"
//	  },
//	  "metrics": {"enabled": true, "path": "/metrics"},
//	  "navigation": {"loadTimeout": "10s"}
//	}
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
