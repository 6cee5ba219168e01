package config

// Framework holds the fixed settings the HTTP layer and password handling
// are built with. None of these values come from the environment.
type Framework struct {
	REST               REST     `yaml:"rest"`
	APIDocs            APIDocs  `yaml:"api_docs"`
	I18N               I18N     `yaml:"i18n"`
	StaticURL          string   `yaml:"static_url"`
	PasswordHashers    []string `yaml:"password_hashers"`
	PasswordValidators []string `yaml:"password_validators"`
}

// REST configures pagination, authentication and filtering of API views.
type REST struct {
	PaginationClass       string   `yaml:"pagination_class"`
	PageSize              int      `yaml:"page_size"`
	AuthenticationSchemes []string `yaml:"authentication_schemes"`
	FilterBackends        []string `yaml:"filter_backends"`
}

// SecurityDefinition describes one authentication scheme in the API docs.
type SecurityDefinition struct {
	Type        string `json:"type" yaml:"type"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	In          string `json:"in,omitempty" yaml:"in,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// APIDocs configures the generated API documentation.
type APIDocs struct {
	SecurityDefinitions map[string]SecurityDefinition `yaml:"security_definitions"`
}

// I18N holds language and time zone settings.
type I18N struct {
	LanguageCode string `yaml:"language_code"`
	TimeZone     string `yaml:"time_zone"`
	UseI18N      bool   `yaml:"use_i18n"`
	UseTZ        bool   `yaml:"use_tz"`
}

// Authentication scheme names.
const (
	AuthToken   = "token"
	AuthBasic   = "basic"
	AuthSession = "session"
	AuthJWT     = "jwt"
)

// DefaultFramework returns a fresh copy of the fixed framework settings.
func DefaultFramework() Framework {
	return Framework{
		REST: REST{
			PaginationClass:       "page_number",
			PageSize:              5,
			AuthenticationSchemes: []string{AuthToken, AuthBasic, AuthSession, AuthJWT},
			FilterBackends:        []string{"query_filter"},
		},
		APIDocs: APIDocs{
			SecurityDefinitions: map[string]SecurityDefinition{
				"Basic": {Type: "basic"},
				"Bearer": {
					Type:        "apiKey",
					Name:        "Authorization",
					In:          "header",
					Description: "JWT token for user authentication",
				},
				"Token": {
					Type:        "apiKey",
					Name:        "Authorization",
					In:          "header",
					Description: "Token for user authentication",
				},
			},
		},
		I18N: I18N{
			LanguageCode: "en-us",
			TimeZone:     "UTC",
			UseI18N:      true,
			UseTZ:        true,
		},
		StaticURL:          "static/",
		PasswordHashers:    []string{"bcrypt_sha256", "pbkdf2_sha256", "pbkdf2_sha1", "argon2", "scrypt"},
		PasswordValidators: []string{"user_attribute_similarity", "minimum_length", "common_password", "numeric"},
	}
}
