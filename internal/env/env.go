// Env package is meant to be used for loading config files
//
// Usage:
//
//	var cfg Cfg
//	l := env.NewLoader()
//	err := l.Load("slsock", &cfg)
//	if err != nil {
//		panic(err)
//	}
package env

// Configurable is any struct pointer a config file can be merged into.
type Configurable any
