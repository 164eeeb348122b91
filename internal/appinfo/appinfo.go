package appinfo

import (
	"time"
)

var (
	Name        = "popshop"
	Title       = "PopShop"
	Description = "Declarative HTTP mocking and forward-proxying server."

	// Application version
	Version = "0.1.0"

	StartTime = time.Now()
)
