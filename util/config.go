package util

import (
	"log"
	"os"

	"github.com/go-yaml/yaml"
)

// Config is the permission backend base configuration
type Config struct {
	Server     Server     `yaml:"server"`
	Permission Permission `yaml:"permission"`
}

type Server struct {
	Dsn           string `yaml:"dsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	ListenAddr    string `yaml:"listenAddr"`
}

type Permission struct {
	ResourceType string            `yaml:"resourceType"`
	Permissions  []PermissionEntry `yaml:"permissions"`
}

type PermissionEntry struct {
	Type         string `yaml:"type"`
	Name         string `yaml:"name"`
	Action       string `yaml:"action"`
	ResourceType string `yaml:"resourceType"`
}

// Load loads config from given path
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		log.Println("failed to open configuration file:", err)
		return err
	}
	defer f.Close()

	err = yaml.NewDecoder(f).Decode(&c)
	if err != nil {
		log.Println("failed to load configuration file:", err)
		return err
	}

	return nil
}
