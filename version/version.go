// Package version carries the build version, overridable at link time:
//
//	go build -ldflags "-X learnbase/version.AppVersion=1.2.0"
package version

var AppVersion = "0.1.0-dev"
