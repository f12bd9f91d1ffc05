package node

import (
	"strings"

	"github.com/vitelabs/go-crowdfund/rpc"
	"github.com/vitelabs/go-crowdfund/rpcapi"
)

//Http apis
func (node *Node) GetHttpApis() []rpc.API {
	return rpcapi.GetApis(node, "fund")
}

func (node *Node) startRPC() error {
	node.rpcAPIs = node.GetHttpApis()
	return node.startHTTP(node.config.RPC.ListenAddr, node.rpcAPIs, node.config.RPC.CorsOrigins)
}

// startHTTP initializes and starts the HTTP RPC endpoint.
func (node *Node) startHTTP(endpoint string, apis []rpc.API, cors []string) error {
	listener, server, err := rpc.StartHTTPEndpoint(endpoint, apis, cors)
	if err != nil {
		return err
	}
	log.Info("HTTP endpoint opened", "url", "http://"+listener.Addr().String(), "cors", strings.Join(cors, ","))
	node.httpListener = listener
	node.httpServer = server
	return nil
}

func (node *Node) stopRPC() {
	if node.httpServer != nil {
		node.httpServer.Close()
		node.httpServer = nil
		node.httpListener = nil
		log.Info("HTTP endpoint closed", "endpoint", node.config.RPC.ListenAddr)
	}
}

// HTTPEndpoint returns the address the rpc endpoint listens on, or "" when
// it is not running.
func (node *Node) HTTPEndpoint() string {
	node.lock.RLock()
	defer node.lock.RUnlock()
	if node.httpListener == nil {
		return ""
	}
	return node.httpListener.Addr().String()
}
