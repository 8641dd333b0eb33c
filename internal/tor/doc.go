// Package tor routes linkwalk's HTTP traffic through a SOCKS5 proxy,
// typically a Tor daemon.
//
// Two ways of obtaining a proxy are supported:
//
//   - an external SOCKS5 proxy given as "host:port" (Client)
//   - an embedded Tor daemon started with tornago (EmbeddedTor)
//
// The package also validates .onion host names. A v3 onion address carries a
// checksum over its public key; CheckHost rejects addresses whose checksum
// does not match before any connection is attempted.
//
// # Usage
//
//	client, err := tor.NewClient("127.0.0.1:9050")
//	if err != nil {
//	    return err
//	}
//	if status := client.CheckConnection(ctx); status != tor.ProxyStatusOK {
//	    return status.Error()
//	}
//	httpClient := client.NewHTTPClient(30 * time.Second)
package tor
