package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // postgres | sqlite
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development | production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// AIConfig points at the hosted text-generation backend. The server never
// talks to the AI provider directly.
type AIConfig struct {
	BackendURL string `yaml:"backend_url" json:"backend_url"`
	Timeout    int    `yaml:"timeout" json:"timeout"` // seconds
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
	AI       AIConfig  `yaml:"ai" json:"ai"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Standarium",
		Location: "America/Sao_Paulo",
		Workdir:  "/var/standarium",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-standarium-0cc258b1",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "standarium",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/standarium/standarium.log",
	},
	AI: AIConfig{
		BackendURL: "http://127.0.0.1:8787",
		Timeout:    60,
	},
}

func setEnvValue(name string, f func(v string)) {
	if v := os.Getenv(name); v != "" {
		f(v)
	}
}

// LoadConfig reads the yaml config file, falling back to defaults, then
// applies STANDARIUM_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("STANDARIUM_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STANDARIUM_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("STANDARIUM_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("STANDARIUM_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("STANDARIUM_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("STANDARIUM_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("STANDARIUM_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("STANDARIUM_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("STANDARIUM_AI_BACKEND_URL", func(v string) { cfg.AI.BackendURL = v })

	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = path.Join(cfg.System.Workdir, "standarium.log")
	}
	return cfg
}
