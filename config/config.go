package config

import "os"

type Config struct {
	Port                    string
	FirebaseCredentialsPath string
	StorageBucket           string
	GeocodingAPIKey         string
	GeocodingBaseURL        string
	DeviceAgentURL          string
	KafkaBootstrapServers   string
	KafkaTopic              string
}

func Load() Config {
	return Config{
		Port:                    os.Getenv("PORT"),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		StorageBucket:           os.Getenv("STORAGE_BUCKET"),
		GeocodingAPIKey:         os.Getenv("GEOCODING_API_KEY"),
		GeocodingBaseURL:        os.Getenv("GEOCODING_BASE_URL"),
		DeviceAgentURL:          os.Getenv("DEVICE_AGENT_URL"),
		KafkaBootstrapServers:   os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		KafkaTopic:              os.Getenv("KAFKA_TOPIC"),
	}
}
