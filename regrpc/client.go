package regrpc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

// Client is a typed registry client over the Registry gRPC service.
//
// Caller identifies the principal on whose behalf mutating calls are
// made; set it before use.
type Client struct {
	cc     *grpc.ClientConn
	client RegistryClient

	// Caller is sent as the caller field of mutating requests.
	Caller registry.Address

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration
}

func Dial(target string, opts DialOptions) (*Client, error) {
	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	cc, err := grpc.DialContext(ctx, target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewRegistryClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) RegisterOrg(label string, admin registry.Address) (node.Node, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	in, err := structpb.NewStruct(map[string]interface{}{
		"label": label,
		"admin": string(admin),
	})
	if err != nil {
		return node.Node{}, err
	}
	reply, err := c.client.RegisterOrg(ctx, in)
	if err != nil {
		return node.Node{}, mapRPC(err)
	}
	return node.Parse(reply.GetValue())
}

func (c *Client) SetOrgAdmin(orgNode node.Node, admin registry.Address) error {
	ctx, cancel := c.ctx()
	defer cancel()
	in, err := structpb.NewStruct(map[string]interface{}{
		"caller": string(c.Caller),
		"org":    orgNode.String(),
		"admin":  string(admin),
	})
	if err != nil {
		return err
	}
	if _, err := c.client.SetOrgAdmin(ctx, in); err != nil {
		return mapRPC(err)
	}
	return nil
}

func (c *Client) RegisterApp(label string, orgNode node.Node, proxy registry.Address) (node.Node, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	in, err := structpb.NewStruct(map[string]interface{}{
		"caller": string(c.Caller),
		"label":  label,
		"org":    orgNode.String(),
		"proxy":  string(proxy),
	})
	if err != nil {
		return node.Node{}, err
	}
	reply, err := c.client.RegisterApp(ctx, in)
	if err != nil {
		return node.Node{}, mapRPC(err)
	}
	return node.Parse(reply.GetValue())
}

func (c *Client) SetAppAdmin(appNode node.Node, admin registry.Address) error {
	ctx, cancel := c.ctx()
	defer cancel()
	in, err := structpb.NewStruct(map[string]interface{}{
		"caller": string(c.Caller),
		"app":    appNode.String(),
		"admin":  string(admin),
	})
	if err != nil {
		return err
	}
	if _, err := c.client.SetAppAdmin(ctx, in); err != nil {
		return mapRPC(err)
	}
	return nil
}

func (c *Client) PublishVersion(appNode node.Node, impl registry.Address) (uint64, node.Node, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	in, err := structpb.NewStruct(map[string]interface{}{
		"caller":         string(c.Caller),
		"app":            appNode.String(),
		"implementation": string(impl),
	})
	if err != nil {
		return 0, node.Node{}, err
	}
	reply, err := c.client.PublishVersion(ctx, in)
	if err != nil {
		return 0, node.Node{}, mapRPC(err)
	}
	fields := reply.GetFields()
	version, err := strconv.ParseUint(fields["version"].GetStringValue(), 10, 64)
	if err != nil {
		return 0, node.Node{}, fmt.Errorf("publish reply: bad version: %w", err)
	}
	versionNode, err := node.Parse(fields["versionNode"].GetStringValue())
	if err != nil {
		return 0, node.Node{}, err
	}
	return version, versionNode, nil
}

func (c *Client) LatestImplementation(appNode node.Node) (registry.Address, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.LatestImplementation(ctx, wrapperspb.String(appNode.String()))
	if err != nil {
		return "", mapRPC(err)
	}
	return registry.Address(reply.GetValue()), nil
}

func (c *Client) LatestVersion(appNode node.Node) (uint64, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.LatestVersion(ctx, wrapperspb.String(appNode.String()))
	if err != nil {
		return 0, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) OrgAdmin(orgNode node.Node) (registry.Address, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.OrgAdmin(ctx, wrapperspb.String(orgNode.String()))
	if err != nil {
		return "", mapRPC(err)
	}
	return registry.Address(reply.GetValue()), nil
}

func (c *Client) AppAdmin(appNode node.Node) (registry.Address, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	reply, err := c.client.AppAdmin(ctx, wrapperspb.String(appNode.String()))
	if err != nil {
		return "", mapRPC(err)
	}
	return registry.Address(reply.GetValue()), nil
}

func (c *Client) Derive(parent node.Node, label string) (node.Node, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	in, err := structpb.NewStruct(map[string]interface{}{
		"parent": parent.String(),
		"label":  label,
	})
	if err != nil {
		return node.Node{}, err
	}
	reply, err := c.client.Derive(ctx, in)
	if err != nil {
		return node.Node{}, mapRPC(err)
	}
	return node.Parse(reply.GetValue())
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
