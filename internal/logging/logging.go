package logging

import (
	"go.uber.org/zap"

	"zamflow/internal/config"
)

// New builds the service logger. Production gets JSON at info level, every
// other environment gets the console encoder at debug level.
func New(env config.Environment) (*zap.Logger, error) {
	if env.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
