package config

const EnvPrefix = "SCHOOLLUNCH"

const (
	AppEnvDev        = "dev"
	AppEnvProd       = "prod"
	AppEnvProduction = "production"
)

const (
	EnvAppEnv      = "SCHOOLLUNCH_APP_ENV"
	EnvPort        = "SCHOOLLUNCH_APP_PORT"
	EnvDBDSN       = "SCHOOLLUNCH_DB_DSN"
	EnvDBHost      = "SCHOOLLUNCH_DB_HOST"
	EnvDBUser      = "SCHOOLLUNCH_DB_USER"
	EnvDBName      = "SCHOOLLUNCH_DB_NAME"
	EnvDBPassword  = "SCHOOLLUNCH_DB_PASSWORD"
	EnvRedisURL    = "SCHOOLLUNCH_REDIS_URL"
	EnvJWTSecret   = "SCHOOLLUNCH_JWT_SECRET"
	EnvAdminHash   = "SCHOOLLUNCH_ADMIN_PASSWORD_HASH"
	EnvOrderTZ     = "SCHOOLLUNCH_ORDER_TIMEZONE"
	EnvCORSOrigins = "SCHOOLLUNCH_CORS_ALLOWED_ORIGINS"
	EnvBackendURL  = "SCHOOLLUNCH_BACKEND_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
