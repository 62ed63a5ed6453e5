// Package config loads md2chat settings from a TOML or YAML file, a .env
// file and MD2CHAT_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/humblebanana/md2chat"
	"github.com/humblebanana/md2chat/cache"
	"github.com/humblebanana/md2chat/debounce"
	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/inline"
	"github.com/humblebanana/md2chat/node"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "MD2CHAT_"

type Config struct {
	Theme       string        `toml:"theme" yaml:"theme"`
	Scale       float64       `toml:"scale" yaml:"scale"`
	Clock       string        `toml:"clock" yaml:"clock"`
	Placeholder string        `toml:"placeholder" yaml:"placeholder"`
	ShowBounds  bool          `toml:"show_bounds" yaml:"show_bounds"`
	Debounce    time.Duration `toml:"debounce" yaml:"debounce"`

	Fonts struct {
		Regular string `toml:"regular" yaml:"regular"`
		Bold    string `toml:"bold" yaml:"bold"`
		Italic  string `toml:"italic" yaml:"italic"`
		Mono    string `toml:"mono" yaml:"mono"`
	} `toml:"fonts" yaml:"fonts"`

	Cache struct {
		Backend   string        `toml:"backend" yaml:"backend"`
		Dir       string        `toml:"dir" yaml:"dir"`
		RedisAddr string        `toml:"redis_addr" yaml:"redis_addr"`
		TTL       time.Duration `toml:"ttl" yaml:"ttl"`
	} `toml:"cache" yaml:"cache"`

	Server struct {
		Addr         string        `toml:"addr" yaml:"addr"`
		ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
		WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	} `toml:"server" yaml:"server"`

	Products []Product `toml:"products" yaml:"products"`
}

// Product is a catalog entry as written in config files. Price accepts any
// form inline.ParsePrice understands ("¥299", "29.9元", "$5").
type Product struct {
	SKU    string `toml:"sku" yaml:"sku"`
	Title  string `toml:"title" yaml:"title"`
	Reason string `toml:"reason" yaml:"reason"`
	Label  string `toml:"label" yaml:"label"`
	Price  string `toml:"price" yaml:"price"`
	Image  string `toml:"image" yaml:"image"`
	URL    string `toml:"url" yaml:"url"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	cfg := &Config{
		Theme:       "light",
		Scale:       md2chat.DefaultScale,
		Clock:       md2chat.DefaultClock,
		Placeholder: md2chat.DefaultPlaceholder,
		Debounce:    debounce.DefaultDelay,
	}
	cfg.Cache.Backend = cache.BackendMemory
	cfg.Cache.TTL = md2chat.DefaultAssetTTL
	cfg.Server.Addr = ":8080"
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	return cfg
}

// Load reads .env (if present), then the config file at path (if not
// empty), then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config extension %q (want .toml, .yaml or .yml)", ext)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("THEME", &c.Theme)
	str("CLOCK", &c.Clock)
	str("PLACEHOLDER", &c.Placeholder)
	str("FONT_REGULAR", &c.Fonts.Regular)
	str("FONT_BOLD", &c.Fonts.Bold)
	str("FONT_ITALIC", &c.Fonts.Italic)
	str("FONT_MONO", &c.Fonts.Mono)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("ADDR", &c.Server.Addr)

	if v := os.Getenv(EnvPrefix + "SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sSCALE", EnvPrefix)
		}
		c.Scale = f
	}
	if v := os.Getenv(EnvPrefix + "DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sDEBOUNCE", EnvPrefix)
		}
		c.Debounce = d
	}
	if v := os.Getenv(EnvPrefix + "SHOW_BOUNDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sSHOW_BOUNDS", EnvPrefix)
		}
		c.ShowBounds = b
	}
	return nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if _, err := md2chat.ThemeByName(c.Theme); err != nil {
		return err
	}
	if c.Scale <= 0 || c.Scale > 4 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be in (0, 4], got %g", c.Scale)
	}
	if c.Debounce < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "debounce must not be negative")
	}
	switch c.Cache.Backend {
	case "", cache.BackendMemory, cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	seen := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		if p.SKU == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "product %d has no sku", i)
		}
		if seen[p.SKU] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate product sku %s", p.SKU)
		}
		seen[p.SKU] = true
	}
	return nil
}

// Catalog converts the products section into a lookup table.
func (c *Config) Catalog() node.MapCatalog {
	catalog := make(node.MapCatalog, len(c.Products))
	for _, p := range c.Products {
		prod := node.Product{
			SKU:      p.SKU,
			Title:    p.Title,
			Reason:   p.Reason,
			Label:    p.Label,
			ImageURL: p.Image,
			URL:      p.URL,
			Price:    inline.Price{Value: node.FallbackPrice, Currency: inline.DefaultCurrency},
		}
		if prod.Title == "" {
			prod.Title = node.FallbackProduct(p.SKU).Title
		}
		if p.Price != "" {
			prod.Price = inline.ParsePrice(p.Price)
		}
		catalog[p.SKU] = prod
	}
	return catalog
}

// CacheOptions returns the asset cache settings.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{Backend: c.Cache.Backend, Dir: c.Cache.Dir, RedisAddr: c.Cache.RedisAddr}
}

// RenderOptions builds raster options. Assets and logger are left to the
// caller.
func (c *Config) RenderOptions() (md2chat.RenderOptions, error) {
	th, err := md2chat.ThemeByName(c.Theme)
	if err != nil {
		return md2chat.RenderOptions{}, err
	}
	return md2chat.RenderOptions{
		Theme: th,
		Fonts: md2chat.FontConfig{
			RegularPath: c.Fonts.Regular,
			BoldPath:    c.Fonts.Bold,
			ItalicPath:  c.Fonts.Italic,
			MonoPath:    c.Fonts.Mono,
		},
		Scale:       c.Scale,
		ShowBounds:  c.ShowBounds,
		Clock:       c.Clock,
		Placeholder: c.Placeholder,
		Catalog:     c.Catalog(),
	}, nil
}
