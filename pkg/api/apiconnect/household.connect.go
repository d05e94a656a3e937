package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/pkg/api"
)

// HouseholdServiceName is the fully-qualified name of the HouseholdService service.
const HouseholdServiceName = "household.v1.HouseholdService"

const (
	HouseholdServiceCreateHouseholdProcedure = "/household.v1.HouseholdService/CreateHousehold"
	HouseholdServiceJoinHouseholdProcedure   = "/household.v1.HouseholdService/JoinHousehold"
	HouseholdServiceListHouseholdsProcedure  = "/household.v1.HouseholdService/ListHouseholds"
	HouseholdServiceListMembersProcedure     = "/household.v1.HouseholdService/ListMembers"
)

// HouseholdServiceClient is a client for the household.v1.HouseholdService service.
type HouseholdServiceClient interface {
	CreateHousehold(context.Context, *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error)
	JoinHousehold(context.Context, *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error)
	ListHouseholds(context.Context, *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
}

// NewHouseholdServiceClient constructs a client for the household.v1.HouseholdService service.
func NewHouseholdServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HouseholdServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &householdServiceClient{
		createHousehold: connect.NewClient[api.CreateHouseholdRequest, api.CreateHouseholdResponse](
			httpClient, baseURL+HouseholdServiceCreateHouseholdProcedure, opts...),
		joinHousehold: connect.NewClient[api.JoinHouseholdRequest, api.JoinHouseholdResponse](
			httpClient, baseURL+HouseholdServiceJoinHouseholdProcedure, opts...),
		listHouseholds: connect.NewClient[api.ListHouseholdsRequest, api.ListHouseholdsResponse](
			httpClient, baseURL+HouseholdServiceListHouseholdsProcedure, opts...),
		listMembers: connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](
			httpClient, baseURL+HouseholdServiceListMembersProcedure, opts...),
	}
}

type householdServiceClient struct {
	createHousehold *connect.Client[api.CreateHouseholdRequest, api.CreateHouseholdResponse]
	joinHousehold   *connect.Client[api.JoinHouseholdRequest, api.JoinHouseholdResponse]
	listHouseholds  *connect.Client[api.ListHouseholdsRequest, api.ListHouseholdsResponse]
	listMembers     *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
}

func (c *householdServiceClient) CreateHousehold(ctx context.Context, req *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	return c.createHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) JoinHousehold(ctx context.Context, req *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error) {
	return c.joinHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListHouseholds(ctx context.Context, req *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	return c.listHouseholds.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

// HouseholdServiceHandler is an implementation of the household.v1.HouseholdService service.
type HouseholdServiceHandler interface {
	CreateHousehold(context.Context, *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error)
	JoinHousehold(context.Context, *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error)
	ListHouseholds(context.Context, *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
}

// NewHouseholdServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewHouseholdServiceHandler(svc HouseholdServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createHousehold := connect.NewUnaryHandler(HouseholdServiceCreateHouseholdProcedure, svc.CreateHousehold, opts...)
	joinHousehold := connect.NewUnaryHandler(HouseholdServiceJoinHouseholdProcedure, svc.JoinHousehold, opts...)
	listHouseholds := connect.NewUnaryHandler(HouseholdServiceListHouseholdsProcedure, svc.ListHouseholds, opts...)
	listMembers := connect.NewUnaryHandler(HouseholdServiceListMembersProcedure, svc.ListMembers, opts...)
	return "/" + HouseholdServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case HouseholdServiceCreateHouseholdProcedure:
			createHousehold.ServeHTTP(w, r)
		case HouseholdServiceJoinHouseholdProcedure:
			joinHousehold.ServeHTTP(w, r)
		case HouseholdServiceListHouseholdsProcedure:
			listHouseholds.ServeHTTP(w, r)
		case HouseholdServiceListMembersProcedure:
			listMembers.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedHouseholdServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedHouseholdServiceHandler struct{}

func (UnimplementedHouseholdServiceHandler) CreateHousehold(context.Context, *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.HouseholdService.CreateHousehold is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) JoinHousehold(context.Context, *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.HouseholdService.JoinHousehold is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) ListHouseholds(context.Context, *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.HouseholdService.ListHouseholds is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.HouseholdService.ListMembers is not implemented"))
}
