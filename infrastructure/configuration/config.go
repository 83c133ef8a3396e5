package configuration

import (
	"fmt"
	"os"
	"strconv"

	"tubemetrics/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	YouTube     YouTube     `json:"youtube"`
	Cache       Cache       `json:"cache"`
	Storage     Storage     `json:"storage"`
	RedisClient RedisClient `json:"redisClient"`
	Database    Database    `json:"database"`
	Logger      Logger      `json:"logger"`
}

type YouTube struct {
	APIKey       string   `json:"apiKey"`
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	Scopes       []string `json:"scopes"`
	RegionCode   string   `json:"regionCode"`
}

type Cache struct {
	TTLSeconds int `json:"ttlSeconds"`
}

// Storage selects the key-value backend: memory, file, redis or mysql.
type Storage struct {
	Driver string `json:"driver"`
	Path   string `json:"path"` // file driver only
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Database struct {
	MySql Db `json:"mysql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	LoadConfig()
	initStorage(&C)
	initCache(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.tubemetrics")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initStorage(C *Config) {
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		C.Storage.Driver = v
	}
	if C.Storage.Driver == "" {
		C.Storage.Driver = "file"
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		C.Storage.Path = v
	}
	if C.Storage.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		C.Storage.Path = home + "/.tubemetrics/storage.json"
	}

	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = os.Getenv("REDIS_PORT")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}

	if C.Database.MySql.Name == "" {
		C.Database.MySql.Name = os.Getenv("MYSQL_DB_NAME")
	}
	if C.Database.MySql.Host == "" {
		C.Database.MySql.Host = os.Getenv("MYSQL_HOST")
	}
	if C.Database.MySql.Port == "" {
		if v := os.Getenv("MYSQL_PORT"); v != "" {
			C.Database.MySql.Port = v
		} else {
			C.Database.MySql.Port = "3306"
		}
	}
	if C.Database.MySql.User == "" {
		C.Database.MySql.User = os.Getenv("MYSQL_USER")
	}
	if C.Database.MySql.Password == "" {
		C.Database.MySql.Password = os.Getenv("MYSQL_PASSWORD")
	}
}

func initCache(C *Config) {
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Cache.TTLSeconds = n
		}
	}
	if C.Cache.TTLSeconds == 0 {
		C.Cache.TTLSeconds = 300
	}
}
