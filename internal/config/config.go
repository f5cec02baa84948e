package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// setting binds key to its upper-cased environment variable and registers a
// default. Keys stay flat so the same name resolves from the environment and
// from a .env file.
func setting(key string, def interface{}) string {
	viper.BindEnv(key, strings.ToUpper(key))
	viper.SetDefault(key, def)
	return key
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(viper.GetString(setting(key, def)))); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(viper.GetString(setting(key, def.String())))); err == nil {
		return v
	}
	return def
}

func getList(key string) []string {
	var list []string
	for _, item := range strings.Split(viper.GetString(setting(key, "")), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// AdminConfig is the account the seeder creates on a fresh database.
type AdminConfig struct {
	Email    string
	Password string
}

func LoadAdminConfig() *AdminConfig {
	return &AdminConfig{
		Email:    viper.GetString(setting("admin_email", "admin@system.local")),
		Password: viper.GetString(setting("admin_password", "Admin@123")),
	}
}
