package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type ApplicationConfig struct {
	HTTPServer    *HTTPServerConfig    `json:"http_server"`
	Metrics       *MetricsConfig       `json:"metrics"`
	HealthCheck   *HealthCheckConfig   `json:"health_check"`
	Database      *DatabaseConfig      `json:"database"`
	MessageBroker *MessageBrokerConfig `json:"message_broker"`
	Detector      *DetectorConfig      `json:"detector"`
	Sentry        *SentryConfig        `json:"sentry"`
}

func NewApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		HTTPServer:    NewHTTPServerConfig(),
		Metrics:       NewMetricsConfig(),
		HealthCheck:   NewHealthCheckConfig(),
		Database:      NewDatabaseConfig(),
		MessageBroker: NewMessageBrokerConfig(),
		Detector:      NewDetectorConfig(),
		Sentry:        NewSentryConfig(),
	}
}

func (c *ApplicationConfig) AddFlags(flagset *pflag.FlagSet) {
	c.HTTPServer.AddFlags(flagset)
	c.Metrics.AddFlags(flagset)
	c.HealthCheck.AddFlags(flagset)
	c.Database.AddFlags(flagset)
	c.MessageBroker.AddFlags(flagset)
	c.Detector.AddFlags(flagset)
	c.Sentry.AddFlags(flagset)
}

// ReadFiles reads every file-backed setting and returns one message per failure.
func (c *ApplicationConfig) ReadFiles() []string {
	readFiles := []struct {
		f    func() error
		name string
	}{
		{c.Database.ReadFiles, "Database"},
		{c.MessageBroker.ReadFiles, "MessageBroker"},
		{c.Sentry.ReadFiles, "Sentry"},
	}
	messages := []string{}
	for _, rf := range readFiles {
		if err := rf.f(); err != nil {
			msg := fmt.Sprintf("%s %s", rf.name, err.Error())
			messages = append(messages, msg)
		}
	}
	return messages
}

// Validate checks cross-field constraints after flags and files are loaded.
func (c *ApplicationConfig) Validate() error {
	return c.Detector.Validate()
}

// GetProjectRootDir returns the repository root, used to resolve relative secret paths in development.
func GetProjectRootDir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "..", "..")
}

// Read the contents of file into integer value
func readFileValueInt(file string, val *int) error {
	fileContents, err := ReadFile(file)
	if err != nil {
		return err
	}

	*val, err = strconv.Atoi(fileContents)
	return err
}

// Read the contents of file into string value
func readFileValueString(file string, val *string) error {
	fileContents, err := ReadFile(file)
	if err != nil {
		return err
	}

	*val = strings.TrimSuffix(fileContents, "\n")
	return err
}

// ReadFile returns the contents of file. An empty path yields an empty string and no error.
// Relative paths are resolved against the project root.
func ReadFile(file string) (string, error) {
	// If the value is in quotes, unquote it
	unquotedFile, err := strconv.Unquote(file)
	if err != nil {
		// values without quotes will raise an error, ignore it.
		unquotedFile = file
	}

	// If no file is provided, leave val unchanged.
	if unquotedFile == "" {
		return "", nil
	}

	// Ensure the absolute file path is used
	absFilePath := unquotedFile
	if !filepath.IsAbs(unquotedFile) {
		absFilePath = filepath.Join(GetProjectRootDir(), unquotedFile)
	}

	// Read the file
	buf, err := os.ReadFile(absFilePath)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// readFileIfExists calls read only when file is set and present on disk.
func readFileIfExists(file string, read func(file string) error) error {
	if file == "" {
		return nil
	}
	path := file
	if !filepath.IsAbs(file) {
		path = filepath.Join(GetProjectRootDir(), file)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return read(file)
}
