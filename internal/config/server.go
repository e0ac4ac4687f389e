package config

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr        string
	AppEnv      string
	CORSOrigins []string
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:        get("HTTP_ADDR", ":8080"),
		AppEnv:      get("APP_ENV", "production"),
		CORSOrigins: getList("CORS_ORIGINS", []string{"http://localhost:5173"}),
	}
}
