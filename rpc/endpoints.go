package rpc

import (
	"net"
	"net/http"
	"net/rpc"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/powerman/rpc-codec/jsonrpc2"
	"github.com/rs/cors"

	"github.com/vitelabs/go-crowdfund/common"
)

var log = log15.New("module", "rpc")

// API describes the set of methods offered over the RPC interface
type API struct {
	Namespace string      // namespace under which the rpc methods of Service are exposed
	Version   string      // api version for DApp's
	Service   interface{} // receiver instance which holds the methods
	Public    bool        // indication if the methods must be considered safe for public use
}

func NewServer(apis []API) (*rpc.Server, error) {
	srv := rpc.NewServer()
	for _, api := range apis {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			return nil, errors.Wrapf(err, "register %s", api.Namespace)
		}
		log.Debug("HTTP registered", "namespace", api.Namespace)
	}
	return srv, nil
}

// NewHTTPHandler serves JSON-RPC 2.0 over HTTP POST. Cross origin requests
// are allowed from corsOrigins only; an empty list disables CORS handling.
func NewHTTPHandler(apis []API, corsOrigins []string) (http.Handler, error) {
	srv, err := NewServer(apis)
	if err != nil {
		return nil, err
	}
	handler := jsonrpc2.HTTPHandler(srv)
	if len(corsOrigins) == 0 {
		return handler, nil
	}
	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(handler), nil
}

// StartHTTPEndpoint listens on endpoint and serves apis until the returned
// server is shut down.
func StartHTTPEndpoint(endpoint string, apis []API, corsOrigins []string) (net.Listener, *http.Server, error) {
	handler, err := NewHTTPHandler(apis, corsOrigins)
	if err != nil {
		return nil, nil, err
	}
	lis, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen %s", endpoint)
	}
	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	common.Go(func() {
		if err := server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.Error("http endpoint stopped", "endpoint", endpoint, "err", err)
		}
	})
	log.Info("HTTP endpoint opened", "url", "http://"+lis.Addr().String())
	return lis, server, nil
}
