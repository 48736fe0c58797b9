package config

// EnvPrefix scopes every environment variable consumed by envconfig.
const EnvPrefix = "INVENTARIO"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "INVENTARIO_APP_ENV"
	EnvPort   = "INVENTARIO_APP_PORT"

	EnvDBDSN  = "INVENTARIO_DB_DSN"
	EnvDBHost = "INVENTARIO_DB_HOST"
	EnvDBUser = "INVENTARIO_DB_USER"
	EnvDBName = "INVENTARIO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
