package model

// ================ Config ================
type ConversationConfig struct {
	TTL    string `envconfig:"CONVERSATION_TTL" default:"24h"`
	Prompt struct {
		MaxTurns int `envconfig:"CONVERSATION_PROMPT_MAX_TURNS" default:"10"`
	}
}

type StoreConfig struct {
	Backend string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir string `envconfig:"STORE_DATA_DIR" default:"./db"`
}

// UserProfileConfig holds the semi-static identity of the implicit user.
type UserProfileConfig struct {
	UserID     string `envconfig:"USER_ID" default:"student123"`
	Name       string `envconfig:"USER_NAME" default:"Alex"`
	GradeLevel string `envconfig:"USER_GRADE_LEVEL" default:"10"`
}

// ModelConfig is the provider-neutral shape shared by every oracle task config.
type ModelConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0"`
}

type ExtractorModelConfig struct {
	Model       string  `envconfig:"EXTRACTOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"EXTRACTOR_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"EXTRACTOR_TEMPERATURE" default:"0"`
}

type StateModelConfig struct {
	Model       string  `envconfig:"STATE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"STATE_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"STATE_TEMPERATURE" default:"0.5"`
}

type ClarifierModelConfig struct {
	Model       string  `envconfig:"CLARIFIER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CLARIFIER_MAX_TOKENS" default:"512"`
	Temperature float32 `envconfig:"CLARIFIER_TEMPERATURE" default:"0.4"`
}

func (c ClassifierModelConfig) ModelConfig() ModelConfig { return ModelConfig(c) }
func (c ExtractorModelConfig) ModelConfig() ModelConfig  { return ModelConfig(c) }
func (c StateModelConfig) ModelConfig() ModelConfig      { return ModelConfig(c) }
func (c ClarifierModelConfig) ModelConfig() ModelConfig  { return ModelConfig(c) }

type OracleConfig struct {
	ThinkingBudget int32 `envconfig:"ORACLE_THINKING_BUDGET" default:"0"`
	Classifier     ClassifierModelConfig
	Extractor      ExtractorModelConfig
	State          StateModelConfig
	Clarifier      ClarifierModelConfig
}

type HTTPConfig struct {
	Addr         string `envconfig:"HTTP_ADDR" default:":8000"`
	ReadTimeout  string `envconfig:"HTTP_READ_TIMEOUT" default:"30s"`
	WriteTimeout string `envconfig:"HTTP_WRITE_TIMEOUT" default:"120s"`
	// CORSOrigins is a comma separated allow list; empty disables CORS.
	CORSOrigins []string `envconfig:"HTTP_CORS_ORIGINS"`
}
