package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AuthSecret string

	PushGatewayURL      string
	RoutingServiceURL   string
	GeocodingServiceURL string

	DeliveryFee      float64
	FreeDeliveryOver float64
	TaxRate          float64

	StaleWatchSchedule string
	StaleReadyAge      time.Duration
	StaleTransitAge    time.Duration
}
