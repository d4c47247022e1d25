package consul

import (
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/consul/api"
)

type Client struct {
	client      *api.Client
	serviceName string
	servicePort int
}

// NewClient creates a Consul client pointed at CONSUL_HOST.
func NewClient(serviceName string, servicePort int) (*Client, error) {
	consulHost := os.Getenv("CONSUL_HOST")
	if consulHost == "" {
		consulHost = "localhost"
	}

	config := api.DefaultConfig()
	config.Address = fmt.Sprintf("%s:8500", consulHost)

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %v", err)
	}

	return &Client{
		client:      client,
		serviceName: serviceName,
		servicePort: servicePort,
	}, nil
}

// RegisterService registers the service with Consul
func (c *Client) RegisterService() error {
	// Get container hostname for service registration
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %v", err)
	}

	registration := &api.AgentServiceRegistration{
		ID:      fmt.Sprintf("%s-%s", c.serviceName, hostname),
		Name:    c.serviceName,
		Port:    c.servicePort,
		Address: hostname, // Use container hostname for internal Docker networking
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", hostname, c.servicePort),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}

	err = c.client.Agent().ServiceRegister(registration)
	if err != nil {
		return fmt.Errorf("failed to register service: %v", err)
	}

	log.Printf("Service %s registered with Consul at %s:%d", c.serviceName, hostname, c.servicePort)
	return nil
}

// DeregisterService removes the service from Consul
func (c *Client) DeregisterService() error {
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %v", err)
	}

	serviceID := fmt.Sprintf("%s-%s", c.serviceName, hostname)
	err = c.client.Agent().ServiceDeregister(serviceID)
	if err != nil {
		return fmt.Errorf("failed to deregister service: %v", err)
	}

	log.Printf("Service %s deregistered from Consul", c.serviceName)
	return nil
}
