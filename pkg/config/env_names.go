package config

// EnvPrefix scopes all environment variables consumed by Load.
const EnvPrefix = "NAVAJOTHI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv            = "NAVAJOTHI_APP_ENV"
	EnvPort              = "NAVAJOTHI_APP_PORT"
	EnvDBDSN             = "NAVAJOTHI_DB_DSN"
	EnvDBHost            = "NAVAJOTHI_DB_HOST"
	EnvDBUser            = "NAVAJOTHI_DB_USER"
	EnvDBName            = "NAVAJOTHI_DB_NAME"
	EnvRedisURL          = "NAVAJOTHI_REDIS_URL"
	EnvJWTSecret         = "NAVAJOTHI_JWT_SECRET"
	EnvJWTIssuer         = "NAVAJOTHI_JWT_ISSUER"
	EnvJWTExpMins        = "NAVAJOTHI_JWT_EXPIRATION_MINUTES"
	EnvSessionTTLMinutes = "NAVAJOTHI_SESSION_TTL_MINUTES"
	EnvRazorpayKeyID     = "NAVAJOTHI_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "NAVAJOTHI_RAZORPAY_KEY_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
