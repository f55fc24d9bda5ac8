package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// TransactionsPolicy define o tratamento de linhas com mais transações do que sessões
type TransactionsPolicy string

const (
	TransactionsReject      TransactionsPolicy = "reject"      // descarta a linha
	TransactionsClamp       TransactionsPolicy = "clamp"       // transações = sessões
	TransactionsPassthrough TransactionsPolicy = "passthrough" // mantém a linha como veio
)

// MissingCartAddsPolicy define o valor de adds-to-cart para meses ausentes no arquivo de carrinho
type MissingCartAddsPolicy string

const (
	MissingCartAddsNull MissingCartAddsPolicy = "null"
	MissingCartAddsZero MissingCartAddsPolicy = "zero"
)

// MaxTopBrowsers é o tamanho máximo do ranking de navegadores (aba "Top 20 Browsers")
const MaxTopBrowsers = 20

type Config struct {
	App      App      `mapstructure:",squash"`
	Output   Output   `mapstructure:",squash"`
	Cleaning Cleaning `mapstructure:",squash"`
	Report   Report   `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Output struct {
	Path            string `mapstructure:"output_path"`
	SummaryJSONPath string `mapstructure:"summary_json_path"`
	ChartsEnabled   bool   `mapstructure:"charts_enabled"`
}

type Cleaning struct {
	DateLayouts        []string           `mapstructure:"session_date_layouts"`
	TransactionsPolicy TransactionsPolicy `mapstructure:"transactions_policy"`
}

type Report struct {
	TopBrowsersLimit int                   `mapstructure:"top_browsers_limit"`
	MissingCartAdds  MissingCartAddsPolicy `mapstructure:"missing_cart_adds"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("OUTPUT_PATH", "website_agg.xlsx")
	v.SetDefault("SUMMARY_JSON_PATH", "") // Vazio = não gera o resumo em JSON
	v.SetDefault("CHARTS_ENABLED", true)

	// O extrato de sessões usa datas no formato m/d/yy
	v.SetDefault("SESSION_DATE_LAYOUTS", "1/2/06,1/2/2006,2006-01-02")
	v.SetDefault("TRANSACTIONS_POLICY", string(TransactionsReject))

	v.SetDefault("TOP_BROWSERS_LIMIT", MaxTopBrowsers)
	v.SetDefault("MISSING_CART_ADDS", string(MissingCartAddsNull))
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	v := viper.GetViper()
	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	if err := v.ReadInConfig(); err != nil {
		logrus.Debug("Arquivo .env não lido pelo Viper, usando variáveis de ambiente e valores padrão: ", err)
	}

	return Load(v)
}

// Load aplica os valores padrão, decodifica e valida a configuração de uma instância do Viper
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	config := &Config{}

	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar configuração")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica os valores que alteram o comportamento do relatório
func (c *Config) Validate() error {
	switch c.Cleaning.TransactionsPolicy {
	case TransactionsReject, TransactionsClamp, TransactionsPassthrough:
	default:
		return errors.Errorf("TRANSACTIONS_POLICY inválida: %q (use reject, clamp ou passthrough)", c.Cleaning.TransactionsPolicy)
	}

	switch c.Report.MissingCartAdds {
	case MissingCartAddsNull, MissingCartAddsZero:
	default:
		return errors.Errorf("MISSING_CART_ADDS inválido: %q (use null ou zero)", c.Report.MissingCartAdds)
	}

	if c.Report.TopBrowsersLimit <= 0 || c.Report.TopBrowsersLimit > MaxTopBrowsers {
		return errors.Errorf("TOP_BROWSERS_LIMIT deve estar entre 1 e %d: %d", MaxTopBrowsers, c.Report.TopBrowsersLimit)
	}

	if c.Output.Path == "" {
		return errors.New("OUTPUT_PATH não pode ser vazio")
	}

	if strings.ToLower(filepath.Ext(c.Output.Path)) != ".xlsx" {
		return errors.Errorf("OUTPUT_PATH deve terminar em .xlsx: %s", c.Output.Path)
	}

	layouts := make([]string, 0, len(c.Cleaning.DateLayouts))
	for _, layout := range c.Cleaning.DateLayouts {
		if layout = strings.TrimSpace(layout); layout != "" {
			layouts = append(layouts, layout)
		}
	}
	if len(layouts) == 0 {
		return errors.New("SESSION_DATE_LAYOUTS deve ter ao menos um formato de data")
	}
	c.Cleaning.DateLayouts = layouts

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}
}
