// Package version carries build information injected at link time, for
// example
//
//	go build -ldflags "-X github.com/TeamNorCal/ledanim/version.GitHash=`git rev-parse HEAD` -X github.com/TeamNorCal/ledanim/version.BuildTime=`date -u +%Y-%m-%dT%H:%M:%SZ`"
package version

var (
	BuildTime string
	GitHash   string
)
