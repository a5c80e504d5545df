package core

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"

	"github.com/encodeous/weft/state"
	"github.com/goccy/go-yaml"
)

// httpClient is the thin transport to the routing daemon. The decision,
// key-value store and forwarding agent services each serve YAML documents
// over plain HTTP; every transport failure surfaces as ErrUnreachableService.
type httpClient struct {
	cfg  state.Cfg
	http *http.Client
}

func NewClient(cfg state.Cfg) state.RoutingClient {
	return &httpClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *httpClient) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", state.ErrUnreachableService, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", state.ErrUnreachableService, u, res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", state.ErrUnreachableService, err)
	}
	err = yaml.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u, err)
	}
	return nil
}

func (c *httpClient) serviceUrl(port uint16, p string, query url.Values) string {
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(c.cfg.Host, strconv.Itoa(int(port))),
		Path:   p,
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func scopeQuery(scope state.Scope) url.Values {
	q := url.Values{}
	for _, node := range scope {
		q.Add("node", string(node))
	}
	return q
}

func (c *httpClient) GetAdjacencyDatabases(ctx context.Context, scope state.Scope) (map[state.NodeId]state.AdjacencyDatabase, error) {
	dbs := make(map[state.NodeId]state.AdjacencyDatabase)
	err := c.get(ctx, c.serviceUrl(c.cfg.DecisionPort, "/adj-dbs", scopeQuery(scope)), &dbs)
	if err != nil {
		return nil, err
	}
	return dbs, nil
}

func (c *httpClient) GetPrefixDatabases(ctx context.Context, scope state.Scope) (map[state.NodeId]state.PrefixDatabase, error) {
	dbs := make(map[state.NodeId]state.PrefixDatabase)
	err := c.get(ctx, c.serviceUrl(c.cfg.DecisionPort, "/prefix-dbs", scopeQuery(scope)), &dbs)
	if err != nil {
		return nil, err
	}
	return dbs, nil
}

func (c *httpClient) GetRouteDatabase(ctx context.Context, node state.NodeId) (state.RouteDatabase, error) {
	var db state.RouteDatabase
	err := c.get(ctx, c.serviceUrl(c.cfg.DecisionPort, "/route-db/"+string(node), nil), &db)
	if err != nil {
		return state.RouteDatabase{}, err
	}
	return db, nil
}

func (c *httpClient) GetLiveForwardingTable(ctx context.Context, nodeAddr netip.Addr, clientId string) ([]state.ForwardingRoute, error) {
	u := url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort(nodeAddr.String(), strconv.Itoa(int(c.cfg.FibAgentPort))),
		Path:     "/routes",
		RawQuery: url.Values{"client": []string{clientId}}.Encode(),
	}
	routes := make([]state.ForwardingRoute, 0)
	err := c.get(ctx, u.String(), &routes)
	if err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *httpClient) GetKeyValueDump(ctx context.Context, scope state.Scope, keyPrefix string) (map[string][]byte, error) {
	q := scopeQuery(scope)
	if keyPrefix != "" {
		q.Set("prefix", keyPrefix)
	}
	dump := make(map[string][]byte)
	err := c.get(ctx, c.serviceUrl(c.cfg.KvStorePort, "/dump", q), &dump)
	if err != nil {
		return nil, err
	}
	return dump, nil
}
