package feature

import (
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// IPResolver reports local interface addresses and, on request, the public
// address via an HTTP lookup.
type IPResolver struct {
	client   *http.Client
	endpoint string
}

func NewIPResolver() *IPResolver {
	return &IPResolver{
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: "https://api.ipify.org",
	}
}

// WithEndpoint overrides the public-IP endpoint, for tests.
func (p *IPResolver) WithEndpoint(endpoint string, client *http.Client) *IPResolver {
	p.endpoint = endpoint
	if client != nil {
		p.client = client
	}
	return p
}

func (p *IPResolver) Name() string { return "ip" }

func (p *IPResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found {
		return nil
	}
	switch {
	case op == "ip" && arg == "":
		lines := localAddrs()
		if len(lines) == 0 {
			return fail(query, "no network interfaces found")
		}
		return ok(query, strings.Join(lines, "\n"))
	case op == "myip" || (op == "ip" && strings.EqualFold(arg, "public")):
		resp, err := p.client.Get(p.endpoint)
		if err != nil {
			return fail(query, "public ip lookup failed: "+err.Error())
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		addr := strings.TrimSpace(string(body))
		if net.ParseIP(addr) == nil {
			return fail(query, "public ip lookup returned garbage")
		}
		return ok(query, addr)
	}
	return nil
}

func localAddrs() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	var out []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, okk := a.(*net.IPNet)
			if !okk || ipnet.IP.To4() == nil {
				continue
			}
			out = append(out, iface.Name+": "+ipnet.IP.String())
		}
	}
	return out
}

func (p *IPResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(ipFormats, partial)
}

func (p *IPResolver) Help() *Help {
	return &Help{
		Title:       "IP info",
		Description: "Local and public IP addresses",
		Formats:     ipFormats,
	}
}

var ipFormats = []Suggestion{
	{Format: "ip", Description: "Local interface addresses", Example: "ip"},
	{Format: "myip", Description: "Public IP address", Example: "myip"},
	{Format: "ip public", Description: "Public IP address", Example: "ip public"},
}
