package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8080"`
}

type StoreConfig struct {
	HostName string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"3306"`
	UserName string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"festreg"`
	Prefix   string `yaml:"prefix" env-default:""`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"true"`
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"festreg"`
}

type OAuthConfig struct {
	ClientID     string `yaml:"client_id" env-default:""`
	ClientSecret string `yaml:"client_secret" env-default:""`
}

type StripeConfig struct {
	WebhookSecret string `yaml:"webhook_secret" env-default:""`
	TestMode      bool   `yaml:"test_mode" env-default:"false"`
}

type TelegramConfig struct {
	Enabled bool    `yaml:"enabled" env-default:"false"`
	ApiKey  string  `yaml:"api_key" env-default:""`
	ChatIds []int64 `yaml:"chat_ids"`
}

type Config struct {
	Env      string         `yaml:"env" env-default:"local"`
	BaseURL  string         `yaml:"base_url" env-default:"http://localhost:8080"`
	Listen   Listen         `yaml:"listen"`
	Store    StoreConfig    `yaml:"store"`
	Mongo    MongoConfig    `yaml:"mongo"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Telegram TelegramConfig `yaml:"telegram"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
