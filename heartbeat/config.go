package heartbeat

import (
	"github.com/joho/godotenv"

	"github.com/vinayprograms/opsgenie/credentials"
)

// Configure resolves the API key and name and stores them, replacing any
// previous configuration even when no key is found. It reports whether an
// API key was found. It has no network or timer side effects.
func (a *Agent) Configure(opts *Options) bool {
	conf := a.resolve(opts)

	a.mu.Lock()
	a.conf = conf
	a.configured = true
	a.mu.Unlock()

	return conf.APIKey != ""
}

// configureIfUnset resolves from the environment and stores the result only
// if nothing has configured the agent by then. applied is false when an
// earlier Configure won.
func (a *Agent) configureIfUnset() (hasKey, applied bool) {
	conf := a.resolve(nil)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.configured {
		return false, false
	}
	a.conf = conf
	a.configured = true
	return conf.APIKey != "", true
}

func (a *Agent) resolve(opts *Options) Configuration {
	var o Options
	if opts != nil {
		o = *opts
	}

	dotenv := a.readEnvFile()
	creds := a.readCredentials()

	conf := Configuration{
		APIKey: firstNonEmpty(
			o.APIKey,
			a.env(EnvAPIKey),
			dotenv[EnvAPIKey],
			creds.APIKey(),
		),
		Name: firstNonEmpty(
			o.Name,
			o.Source,
			a.env(EnvName),
			a.env(EnvSource),
			dotenv[EnvName],
			dotenv[EnvSource],
			creds.Name(),
		),
	}
	if conf.Name == "" {
		conf.Name = a.hostname()
	}
	return conf
}

// env treats an empty variable as unset.
func (a *Agent) env(key string) string {
	v, _ := a.cfg.LookupEnv(key)
	return v
}

func (a *Agent) hostname() string {
	name, err := a.cfg.Hostname()
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}

func (a *Agent) readEnvFile() map[string]string {
	if a.cfg.EnvFile == "" {
		return nil
	}
	vals, err := godotenv.Read(a.cfg.EnvFile)
	if err != nil {
		a.log.Warn("env file skipped", map[string]interface{}{
			"path":  a.cfg.EnvFile,
			"error": err.Error(),
		})
		return nil
	}
	return vals
}

// readCredentials returns nil when no file is configured or it cannot be
// loaded. Credentials methods are nil-safe.
func (a *Agent) readCredentials() *credentials.Credentials {
	if a.cfg.CredentialsFile == "" {
		return nil
	}
	creds, err := credentials.LoadFile(a.cfg.CredentialsFile)
	if err != nil {
		a.log.Warn("credentials file skipped", map[string]interface{}{
			"path":  a.cfg.CredentialsFile,
			"error": err.Error(),
		})
		return nil
	}
	return creds
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
