package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Minio    MinioConfig    `yaml:"minio"`
	LLM      LLMConfig      `yaml:"llm"`
	Auth     AuthConfig     `yaml:"auth"`
	Report   ReportConfig   `yaml:"report"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
	PublicURLs bool   `yaml:"public_urls"`
}

type LLMConfig struct {
	APIURL         string  `yaml:"api_url"`
	VisionAPIURL   string  `yaml:"vision_api_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	VisionModel    string  `yaml:"vision_model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type ReportConfig struct {
	// HindiFontPath points at a Devanagari-capable TTF. Hindi summaries
	// are only rendered into the PDF when this is set.
	HindiFontPath string `yaml:"hindi_font_path"`
}

func Load(path string) (*Config, error) {
	// .env is optional; real deployments use actual environment variables.
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv overlays secrets and deployment endpoints from the environment.
// Environment values win over the YAML file.
func (c *Config) applyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&c.LLM.APIKey, "OPENAI_API_KEY")
	setStr(&c.LLM.APIURL, "OPENAI_API_URL")
	setStr(&c.Auth.JWTSecret, "JWT_SECRET")
	setStr(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setStr(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setStr(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setStr(&c.Database.Path, "DATABASE_PATH")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "lawpal.db"
	}
	if c.Minio.Bucket == "" {
		c.Minio.Bucket = "contract-reports"
	}
	if c.Minio.ExpireDays == 0 {
		c.Minio.ExpireDays = 7
	}
	if c.LLM.APIURL == "" {
		c.LLM.APIURL = "https://api.openai.com/v1/chat/completions"
	}
	if c.LLM.VisionAPIURL == "" {
		c.LLM.VisionAPIURL = c.LLM.APIURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.VisionModel == "" {
		c.LLM.VisionModel = c.LLM.Model
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
}
