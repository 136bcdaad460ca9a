package memorystore

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/redis"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/vpcaccess"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// Redis is the session-scope instance and the connector Cloud Run reaches it
// through.
type Redis struct {
	Instance  *redis.Instance
	Connector *vpcaccess.Connector
}

func SetupRedis(ctx *pulumi.Context, prov *gcp.Provider) (*Redis, error) {
	redisSvc, err := enableService(ctx, prov, "redisService", "redis.googleapis.com")
	if err != nil {
		return nil, err
	}
	vpcSvc, err := enableService(ctx, prov, "vpcAccessService", "vpcaccess.googleapis.com")
	if err != nil {
		return nil, err
	}

	inst, err := createInstance(ctx, prov, redisSvc)
	if err != nil {
		return nil, err
	}

	conn, err := createConnector(ctx, prov, vpcSvc)
	if err != nil {
		return nil, err
	}

	return &Redis{Instance: inst, Connector: conn}, nil
}

func enableService(ctx *pulumi.Context, prov *gcp.Provider, name, service string) (*projects.Service, error) {
	return projects.NewService(ctx, name, &projects.ServiceArgs{
		Service: pulumi.String(service),
	},
		pulumi.Provider(prov),
	)
}

func createInstance(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*redis.Instance, error) {
	gcpCfg := config.New(ctx, "gcp")
	redisCfg := config.New(ctx, "redis")
	region := gcpCfg.Require("region")
	memory := redisCfg.RequireInt("memorySizeGb")

	return redis.NewInstance(ctx, "sessionRedis", &redis.InstanceArgs{
		Name:              pulumi.String("dashboard-sessions"),
		Region:            pulumi.String(region),
		Tier:              pulumi.String("BASIC"),
		MemorySizeGb:      pulumi.Int(memory),
		AuthEnabled:       pulumi.Bool(true),
		AuthorizedNetwork: pulumi.String("default"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func createConnector(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*vpcaccess.Connector, error) {
	gcpCfg := config.New(ctx, "gcp")
	redisCfg := config.New(ctx, "redis")
	region := gcpCfg.Require("region")
	cidr := redisCfg.Require("connectorCidr")

	return vpcaccess.NewConnector(ctx, "runConnector", &vpcaccess.ConnectorArgs{
		Name:        pulumi.String("dashboard-run"),
		Region:      pulumi.String(region),
		IpCidrRange: pulumi.String(cidr),
		Network:     pulumi.String("default"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}
