package config

const (
	defaultRecipeDir     = "recipes"
	defaultClientDir     = "client"
	defaultDistDir       = "dist"
	defaultBaseURL       = "http://127.0.0.1:8700/"
	defaultRecipeAPI     = "http://172.17.0.2/recipes/"
	defaultCookPrefix    = "recipes/"
	defaultFetchTimeout  = 10
	defaultRecipePattern = "*"
	defaultBind          = "127.0.0.1:8700"
	defaultReadTimeout   = 15
	defaultEndpoint      = "https://neocities.org"
	defaultRemoteDir     = "recipes"
	defaultAPIKeyFile    = "NEOCITIES_API_KEY"
	defaultSyncTimeout   = 60
	defaultLogLevel      = "normal"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RecipeDir: defaultRecipeDir,
			ClientDir: defaultClientDir,
			DistDir:   defaultDistDir,
		},
		Site: Site{
			BaseURL:       defaultBaseURL,
			RecipeAPI:     defaultRecipeAPI,
			CookPrefix:    defaultCookPrefix,
			FetchTimeout:  defaultFetchTimeout,
			WriteDetail:   true,
			ValidateDocs:  true,
			RecipePattern: defaultRecipePattern,
		},
		Server: Server{
			Bind:        defaultBind,
			ReadTimeout: defaultReadTimeout,
		},
		Neocities: Neocities{
			Endpoint:   defaultEndpoint,
			RemoteDir:  defaultRemoteDir,
			APIKeyFile: defaultAPIKeyFile,
			Timeout:    defaultSyncTimeout,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
