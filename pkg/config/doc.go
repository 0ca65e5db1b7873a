/*
Package config loads and validates the Carousel daemon configuration.

Configuration is layered, later sources winning:

 1. Built-in defaults (Default)
 2. YAML file (explicit --config path, or ./carousel.yaml when present)
 3. CAROUSEL_* environment variables

The daemon also loads a .env file at startup (cmd/carousel), so secrets
like the text-generation API key can live outside the YAML file.

# Example

	data_dir: /var/lib/carousel
	listen_addr: 127.0.0.1:8080
	automation:
	  poll_interval: 30s
	  error_backoff: 60s
	  batch_size: 100
	device:
	  host_url: http://localhost:4723
	hashtags:
	  model: gpt-4o-mini
	  theme: dating
	logging:
	  level: info
*/
package config
