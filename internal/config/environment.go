package config

import (
	"strings"
)

type Environment int32

const (
	UNDEFINED_ENV Environment = iota
	LOCAL_ENV
	DEV_ENV
	UAT_ENV
	PROD_ENV
)

var environmentNames = map[Environment]string{
	LOCAL_ENV: "local",
	DEV_ENV:   "dev",
	UAT_ENV:   "uat",
	PROD_ENV:  "prod",
}

func StringToEnvironment(s string) Environment {
	s = strings.ToLower(strings.TrimSpace(s))
	for env, name := range environmentNames {
		if name == s {
			return env
		}
	}
	return UNDEFINED_ENV
}

func (e Environment) String() string {
	if name, ok := environmentNames[e]; ok {
		return name
	}
	return "UNDEFINED"
}

// IsDeployed is true for every environment that runs outside a developer machine.
func (e Environment) IsDeployed() bool {
	return e == DEV_ENV || e == UAT_ENV || e == PROD_ENV
}
