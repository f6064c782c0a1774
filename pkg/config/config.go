package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Game   GameConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host         string
	User         string
	Password     string
	Name         string
	Port         int
	SSLMode      string
	TimeZone     string
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// GameConfig 計分與回合節奏的所有常數，由配置調整而不是寫死在程式裡
type GameConfig struct {
	DifficultyMultiplier      int // 基礎分 = 題目難度 * DifficultyMultiplier
	TimeMultiplier            int // 速度加分 = (時限 - 作答秒數) * TimeMultiplier
	MaxTimeBonus              int // 速度加分上限，防止猜答案搶快
	FirstAnswerBonus          int // 每題第一位答對者的加分
	PerStreakPoints           int // 每一段連對的加分
	MaxStreak                 int // 連對加分的計算上限
	InterQuestionDelaySeconds int // 題與題之間的間隔，讓客戶端顯示結果畫面
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
