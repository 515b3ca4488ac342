// Package config loads engine settings from defaults, an optional file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"

	"github.com/rezonia/gst-engine/internal/gst"
	"github.com/rezonia/gst-engine/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. GSTENGINE_GST_RATE
const EnvPrefix = "GSTENGINE"

// Config holds application configuration.
type Config struct {
	GST        GSTConfig        `mapstructure:"gst"`
	Supplier   SupplierConfig   `mapstructure:"supplier"`
	Invoice    InvoiceConfig    `mapstructure:"invoice"`
	Categories []CategoryConfig `mapstructure:"categories" validate:"dive"`
	Server     ServerConfig     `mapstructure:"server"`
}

// GSTConfig holds the tax regime.
type GSTConfig struct {
	Rate     string `mapstructure:"rate" validate:"required"`
	Currency string `mapstructure:"currency" validate:"required,len=3,uppercase"`
}

// SupplierConfig identifies the issuing business.
type SupplierConfig struct {
	Name    string        `mapstructure:"name" validate:"required"`
	ABN     string        `mapstructure:"abn"`
	Address AddressConfig `mapstructure:"address"`
}

// AddressConfig is the supplier postal address.
type AddressConfig struct {
	Line1    string `mapstructure:"line1"`
	Line2    string `mapstructure:"line2"`
	City     string `mapstructure:"city"`
	State    string `mapstructure:"state"`
	Postcode string `mapstructure:"postcode"`
	Country  string `mapstructure:"country"`
}

// InvoiceConfig holds invoice defaults.
type InvoiceConfig struct {
	PaymentTerms   string   `mapstructure:"payment_terms" validate:"required"`
	PaymentMethods []string `mapstructure:"payment_methods" validate:"min=1,dive,required"`
}

// CategoryConfig is one entry of the category table. An empty rate inherits
// gst.rate, except for exempt categories which are always zero.
type CategoryConfig struct {
	Code        string `mapstructure:"code" validate:"required"`
	Name        string `mapstructure:"name"`
	Treatment   string `mapstructure:"treatment" validate:"required,oneof=inclusive exclusive exempt"`
	Rate        string `mapstructure:"rate"`
	Description string `mapstructure:"description"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address" validate:"required"`
	Debug        bool          `mapstructure:"debug"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
}

// Load reads configuration. path may be empty; GSTENGINE_CONFIG is then
// consulted, then ./gst-engine.{yaml,toml,json} and ~/.config/gst-engine.
// Env overrides use prefix GSTENGINE_; GST_RATE, BUSINESS_ABN and
// BUSINESS_NAME are honoured as well.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("gst.rate", gst.StandardRate.String())
	v.SetDefault("gst.currency", gst.DefaultCurrency)
	v.SetDefault("supplier.name", gst.DefaultSupplierName)
	v.SetDefault("supplier.abn", "")
	v.SetDefault("supplier.address.line1", gst.DefaultSupplierAddress.Line1)
	v.SetDefault("supplier.address.line2", "")
	v.SetDefault("supplier.address.city", gst.DefaultSupplierAddress.City)
	v.SetDefault("supplier.address.state", gst.DefaultSupplierAddress.State)
	v.SetDefault("supplier.address.postcode", gst.DefaultSupplierAddress.Postcode)
	v.SetDefault("supplier.address.country", gst.DefaultSupplierAddress.Country)
	v.SetDefault("invoice.payment_terms", gst.DefaultPaymentTerms)
	v.SetDefault("invoice.payment_methods", gst.DefaultPaymentMethods)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gst-engine")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gst-engine"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// legacy variable names
	_ = v.BindEnv("gst.rate", EnvPrefix+"_GST_RATE", "GST_RATE")
	_ = v.BindEnv("supplier.abn", EnvPrefix+"_SUPPLIER_ABN", "BUSINESS_ABN")
	_ = v.BindEnv("supplier.name", EnvPrefix+"_SUPPLIER_NAME", "BUSINESS_NAME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks struct rules, the rate and the currency code. Every
// problem is reported, not just the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			result = multierror.Append(result, model.NewValidationError(
				strings.TrimPrefix(fe.Namespace(), "Config."), fe.Value(), fe.Tag(), "failed "+fe.Tag()+" rule"))
		}
	}

	if c.GST.Rate != "" {
		if _, err := c.Rate(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.GST.Currency != "" {
		if _, err := currency.ParseISO(c.GST.Currency); err != nil {
			result = multierror.Append(result, model.NewValidationError("gst.currency", c.GST.Currency, "iso4217", "unknown currency code"))
		}
	}

	for i, cat := range c.Categories {
		if cat.Rate == "" {
			continue
		}
		if _, err := parseRate(fmt.Sprintf("categories[%d].rate", i), cat.Rate); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// Rate returns the standard GST rate
func (c *Config) Rate() (decimal.Decimal, error) {
	return parseRate("gst.rate", c.GST.Rate)
}

func parseRate(field, raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, model.NewValidationError(field, raw, "decimal", "not a decimal number")
	}
	if rate.IsNegative() {
		return decimal.Zero, model.NewValidationError(field, raw, "gte=0", "rate must not be negative")
	}
	return rate, nil
}

// CategoryDefinitions returns the configured category table, or the default
// table at the configured rate when none is configured.
func (c *Config) CategoryDefinitions() ([]model.CategoryDefinition, error) {
	rate, err := c.Rate()
	if err != nil {
		return nil, err
	}
	if len(c.Categories) == 0 {
		return gst.DefaultCategories(rate), nil
	}

	defs := make([]model.CategoryDefinition, 0, len(c.Categories))
	for i, cat := range c.Categories {
		def := model.CategoryDefinition{
			Code:        cat.Code,
			Name:        cat.Name,
			Treatment:   model.TreatmentKind(cat.Treatment),
			Rate:        rate,
			Description: cat.Description,
		}
		switch {
		case def.Treatment == model.TreatmentExempt:
			def.Rate = decimal.Zero
		case cat.Rate != "":
			def.Rate, err = parseRate(fmt.Sprintf("categories[%d].rate", i), cat.Rate)
			if err != nil {
				return nil, err
			}
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Registry builds the category registry described by the configuration
func (c *Config) Registry() (*gst.Registry, error) {
	rate, err := c.Rate()
	if err != nil {
		return nil, err
	}
	defs, err := c.CategoryDefinitions()
	if err != nil {
		return nil, err
	}
	return gst.NewRegistry(rate, defs...)
}

// AssemblerOptions returns the invoice defaults as assembler options
func (c *Config) AssemblerOptions() []gst.AssemblerOption {
	a := c.Supplier.Address
	return []gst.AssemblerOption{
		gst.WithSupplier(c.Supplier.Name, c.Supplier.ABN, model.Address{
			Line1:    a.Line1,
			Line2:    a.Line2,
			City:     a.City,
			State:    a.State,
			Postcode: a.Postcode,
			Country:  a.Country,
		}),
		gst.WithPaymentTerms(c.Invoice.PaymentTerms),
		gst.WithPaymentMethods(c.Invoice.PaymentMethods...),
		gst.WithCurrency(c.GST.Currency),
	}
}

// Assembler builds the registry and an invoice assembler over it
func (c *Config) Assembler() (*gst.Assembler, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return gst.NewAssembler(reg, c.AssemblerOptions()...), nil
}
