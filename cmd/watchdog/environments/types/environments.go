package types

import "os"

const (
	TestingEnv     string = "testing"
	DevelopmentEnv string = "development"
	ProductionEnv  string = "production"

	EnvironmentStringKey string = "WATCHDOG_ENV"
	EnvironmentDefault   string = DevelopmentEnv
)

// GetEnvironmentStrFromEnv returns the runtime environment named by WATCHDOG_ENV,
// falling back to development when the variable is unset or empty.
func GetEnvironmentStrFromEnv() string {
	envStr, specified := os.LookupEnv(EnvironmentStringKey)
	if !specified || envStr == "" {
		envStr = EnvironmentDefault
	}
	return envStr
}
