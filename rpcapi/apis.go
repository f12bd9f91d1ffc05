package rpcapi

import (
	"github.com/vitelabs/go-crowdfund/rpc"
	"github.com/vitelabs/go-crowdfund/rpcapi/api"
)

type ApiType uint

const (
	FUND ApiType = iota
	apiTypeLimit // this will be the last ApiType + 1
)

var apiTypeStrings = []string{
	"fund",
}

func (at ApiType) name() string {
	return apiTypeStrings[at]
}

func GetApi(backend api.Backend, at ApiType) rpc.API {
	switch at {
	case FUND:
		return rpc.API{
			Namespace: at.name(),
			Version:   "1.0",
			Service:   api.NewFundApi(backend),
			Public:    true,
		}
	default:
		return rpc.API{}
	}
}

// GetApis returns every api when no module is named.
func GetApis(backend api.Backend, apiModule ...string) []rpc.API {
	var apis []rpc.API
	if len(apiModule) == 0 {
		for at := ApiType(0); at < apiTypeLimit; at++ {
			apis = append(apis, GetApi(backend, at))
		}
		return apis
	}
	for _, m := range apiModule {
		for at := ApiType(0); at < apiTypeLimit; at++ {
			if at.name() == m {
				apis = append(apis, GetApi(backend, at))
			}
		}
	}
	return apis
}
