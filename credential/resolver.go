// Package credential resolves the API credential for a transcription
// request from its candidate sources. Resolution happens fresh on every
// request; credentials are never cached and never logged at full length.
package credential

import (
	"os"

	"github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/request"
	"github.com/skillsenselab/scribe/util"
)

// DefaultEnvVar is the environment variable holding the deployment-pinned
// Groq API key.
const DefaultEnvVar = "GROQ_API_KEY"

// Resolver resolves credentials with a fixed precedence: process
// environment, then an inbound bearer token, then the explicit value from
// the request payload. Environment ranks highest so an ops-pinned key can
// never be overridden by caller-supplied values.
type Resolver struct {
	// EnvVar is the environment variable consulted first.
	EnvVar string
	// LookupEnv reads an environment variable. Defaults to os.Getenv.
	LookupEnv func(key string) string

	log *logger.Logger
}

// NewResolver creates a Resolver reading DefaultEnvVar from the process
// environment.
func NewResolver() *Resolver {
	return &Resolver{
		EnvVar:    DefaultEnvVar,
		LookupEnv: os.Getenv,
		log:       logger.WithComponent("credential"),
	}
}

// Resolve determines the credential for one request. explicit is the value
// supplied directly in the request payload; meta carries the inbound
// Authorization header, if any. Fails with a MissingCredential fault when
// no candidate yields a non-empty value.
func (r *Resolver) Resolve(explicit string, meta *request.Meta) (string, error) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.Getenv
	}
	envVar := r.EnvVar
	if envVar == "" {
		envVar = DefaultEnvVar
	}

	key, from := "", ""
	switch {
	case lookup(envVar) != "":
		key, from = lookup(envVar), "environment"
	case meta.BearerToken() != "":
		key, from = meta.BearerToken(), "authorization_header"
	case explicit != "":
		key, from = explicit, "request_payload"
	default:
		return "", errors.MissingCredential()
	}

	if r.log != nil {
		// Only a short, non-reversible prefix ever reaches the logs.
		r.log.Debug("credential resolved", logger.Fields(
			"source", from,
			"key_prefix", util.MaskSecret(key, 6),
		))
	}
	return key, nil
}
