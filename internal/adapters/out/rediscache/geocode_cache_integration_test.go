package rediscache_test

import (
	"context"
	"testing"
	"time"

	"logistics/internal/adapters/out/rediscache"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var _ ports.GeocodeCache = (*rediscache.GeocodeCache)(nil)

// GeocodeCacheIntegrationTestSuite runs the cache against a Redis container.
type GeocodeCacheIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
}

func (suite *GeocodeCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	client, err := rediscache.NewClient(ctx, rediscache.Options{Addr: endpoint})
	suite.Require().NoError(err)
	suite.client = client
}

func (suite *GeocodeCacheIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushDB(context.Background()).Err())
}

func (suite *GeocodeCacheIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GeocodeCacheIntegrationTestSuite) TestGet_Miss() {
	cache := rediscache.NewGeocodeCache(suite.client, time.Minute)

	_, ok, err := cache.Get(context.Background(), "上海市浦东新区")

	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *GeocodeCacheIntegrationTestSuite) TestSetThenGet() {
	ctx := context.Background()
	cache := rediscache.NewGeocodeCache(suite.client, time.Minute)
	point, err := kernel.NewCoordinate(121.544346, 31.221461)
	suite.Require().NoError(err)

	suite.Require().NoError(cache.Set(ctx, " 上海市浦东新区 ", point))

	cached, ok, err := cache.Get(ctx, "上海市浦东新区")
	suite.Require().NoError(err)
	suite.True(ok)
	suite.True(point.IsEqual(cached))

	raw, err := suite.client.Get(ctx, "logistics:geocode:上海市浦东新区").Result()
	suite.Require().NoError(err)
	suite.Equal("121.544346,31.221461", raw)

	ttl, err := suite.client.TTL(ctx, "logistics:geocode:上海市浦东新区").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, time.Minute)
}

func (suite *GeocodeCacheIntegrationTestSuite) TestGet_DropsCorruptValues() {
	ctx := context.Background()
	cache := rediscache.NewGeocodeCache(suite.client, 0)
	suite.Require().NoError(suite.client.Set(ctx, "logistics:geocode:北京市", "not-a-coordinate", 0).Err())

	_, ok, err := cache.Get(ctx, "北京市")

	suite.Require().NoError(err)
	suite.False(ok)
	exists, err := suite.client.Exists(ctx, "logistics:geocode:北京市").Result()
	suite.Require().NoError(err)
	suite.Zero(exists)
}

func (suite *GeocodeCacheIntegrationTestSuite) TestNewClient_Unreachable() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := rediscache.NewClient(ctx, rediscache.Options{Addr: "127.0.0.1:1"})

	suite.Require().Error(err)
}

func TestGeocodeCacheIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(GeocodeCacheIntegrationTestSuite))
}
