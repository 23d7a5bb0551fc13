// Package config loads mdp settings from a dotenv file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// FileName 配置文件名
const FileName = ".env"

// 配置项名称（同时也是环境变量名）
const (
	KeyTelegramBotToken     = "TELEGRAM_BOT_TOKEN"
	KeyTelegramChannel      = "TELEGRAM_CHANNEL"
	KeyTelegraphAccessToken = "TELEGRAPH_ACCESS_TOKEN"
	KeyAuthorName           = "AUTHOR_NAME"
	KeyAuthorURL            = "AUTHOR_URL"
	KeyImgBBAPIKey          = "IMGBB_API_KEY"
	KeyAddID                = "ADD_ID"
	KeyRenderMermaid        = "RENDER_MERMAID"
)

// Keys lists every known setting in display order.
var Keys = []string{
	KeyTelegramBotToken,
	KeyTelegramChannel,
	KeyTelegraphAccessToken,
	KeyAuthorName,
	KeyAuthorURL,
	KeyImgBBAPIKey,
	KeyAddID,
	KeyRenderMermaid,
}

// Config mdp 运行配置
type Config struct {
	TelegramBotToken     string `mapstructure:"telegram_bot_token"`
	TelegramChannel      string `mapstructure:"telegram_channel"`
	TelegraphAccessToken string `mapstructure:"telegraph_access_token"`
	AuthorName           string `mapstructure:"author_name"`
	AuthorURL            string `mapstructure:"author_url"`
	ImgBBAPIKey          string `mapstructure:"imgbb_api_key"`
	AddID                bool   `mapstructure:"add_id"`
	RenderMermaid        bool   `mapstructure:"render_mermaid"`

	// File 当前生效的配置文件
	File string `mapstructure:"-"`
}

// UserDir 返回用户级配置目录：Windows 为 %APPDATA%\mdp，其余为 ~/.config/mdp
func UserDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "mdp"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mdp"), nil
}

// Locate 找到生效的配置文件：优先当前目录的 .env，否则使用用户目录下的 .env
func Locate() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir, err := UserDir()
	if err != nil {
		return "", err
	}
	return LocateIn(wd, dir)
}

// LocateIn 同 Locate，目录由调用方指定；用户级文件不存在时创建空文件
func LocateIn(workDir, userDir string) (string, error) {
	local := filepath.Join(workDir, FileName)
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local, nil
	}

	path := filepath.Join(userDir, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(userDir, 0o755); err != nil {
			return "", fmt.Errorf("config: create %s: %w", userDir, err)
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return "", fmt.Errorf("config: create %s: %w", path, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("config: stat %s: %w", path, err)
	}
	return path, nil
}

// Load 读取 Locate 找到的配置文件
func Load() (*Config, error) {
	path, err := Locate()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile 读取指定 dotenv 文件，环境变量优先于文件
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	for _, key := range Keys {
		v.SetDefault(key, "")
	}
	v.SetDefault(KeyAuthorName, "Автор")
	v.SetDefault(KeyAuthorURL, "https://")
	v.SetDefault(KeyAddID, false)
	v.SetDefault(KeyRenderMermaid, false)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.File = path
	return cfg, nil
}

// readFile reads only the file, without defaults or environment overrides.
func readFile(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return v, nil
}

// Save 把单个配置项写回当前配置文件，其余内容保持不变
func (c *Config) Save(key, value string) error {
	v, err := readFile(c.File)
	if err != nil {
		return err
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(c.File); err != nil {
		return fmt.Errorf("config: write %s: %w", c.File, err)
	}

	switch strings.ToUpper(key) {
	case KeyTelegramBotToken:
		c.TelegramBotToken = value
	case KeyTelegramChannel:
		c.TelegramChannel = value
	case KeyTelegraphAccessToken:
		c.TelegraphAccessToken = value
	case KeyAuthorName:
		c.AuthorName = value
	case KeyAuthorURL:
		c.AuthorURL = value
	case KeyImgBBAPIKey:
		c.ImgBBAPIKey = value
	}
	return nil
}

// Values 返回配置文件中的全部键值（键为大写），按键名排序
func Values(path string) ([]KeyValue, error) {
	v, err := readFile(path)
	if err != nil {
		return nil, err
	}
	keys := v.AllKeys()
	sort.Strings(keys)
	out := make([]KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyValue{Key: strings.ToUpper(k), Value: v.GetString(k)})
	}
	return out, nil
}

// KeyValue 单个配置项
type KeyValue struct {
	Key   string
	Value string
}

// InitFromTemplate 把模板复制为用户级配置文件，返回目标路径
func InitFromTemplate(template string) (string, error) {
	dir, err := UserDir()
	if err != nil {
		return "", err
	}
	return CopyTemplate(template, filepath.Join(dir, FileName))
}

// CopyTemplate 复制模板到 dest（覆盖已有文件）
func CopyTemplate(template, dest string) (string, error) {
	src, err := os.Open(template)
	if err != nil {
		return "", fmt.Errorf("config: template: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("config: create %s: %w", filepath.Dir(dest), err)
	}
	dst, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("config: create %s: %w", dest, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("config: copy template: %w", err)
	}
	return dest, dst.Close()
}
