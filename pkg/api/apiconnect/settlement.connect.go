package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "household.v1.SettlementService"

const (
	SettlementServiceGetBalancesProcedure           = "/household.v1.SettlementService/GetBalances"
	SettlementServiceOpenSettlementProcedure        = "/household.v1.SettlementService/OpenSettlement"
	SettlementServiceFinalizeSettlementProcedure    = "/household.v1.SettlementService/FinalizeSettlement"
	SettlementServiceGetOpenSettlementProcedure     = "/household.v1.SettlementService/GetOpenSettlement"
	SettlementServiceGetSettlementProcedure         = "/household.v1.SettlementService/GetSettlement"
	SettlementServiceListSettlementHistoryProcedure = "/household.v1.SettlementService/ListSettlementHistory"
)

// SettlementServiceClient is a client for the household.v1.SettlementService service.
type SettlementServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	OpenSettlement(context.Context, *connect.Request[api.OpenSettlementRequest]) (*connect.Response[api.OpenSettlementResponse], error)
	FinalizeSettlement(context.Context, *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error)
	GetOpenSettlement(context.Context, *connect.Request[api.GetOpenSettlementRequest]) (*connect.Response[api.GetOpenSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlementHistory(context.Context, *connect.Request[api.ListSettlementHistoryRequest]) (*connect.Response[api.ListSettlementHistoryResponse], error)
}

// NewSettlementServiceClient constructs a client for the household.v1.SettlementService service.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		getBalances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](
			httpClient, baseURL+SettlementServiceGetBalancesProcedure, opts...),
		openSettlement: connect.NewClient[api.OpenSettlementRequest, api.OpenSettlementResponse](
			httpClient, baseURL+SettlementServiceOpenSettlementProcedure, opts...),
		finalizeSettlement: connect.NewClient[api.FinalizeSettlementRequest, api.FinalizeSettlementResponse](
			httpClient, baseURL+SettlementServiceFinalizeSettlementProcedure, opts...),
		getOpenSettlement: connect.NewClient[api.GetOpenSettlementRequest, api.GetOpenSettlementResponse](
			httpClient, baseURL+SettlementServiceGetOpenSettlementProcedure, opts...),
		getSettlement: connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](
			httpClient, baseURL+SettlementServiceGetSettlementProcedure, opts...),
		listSettlementHistory: connect.NewClient[api.ListSettlementHistoryRequest, api.ListSettlementHistoryResponse](
			httpClient, baseURL+SettlementServiceListSettlementHistoryProcedure, opts...),
	}
}

type settlementServiceClient struct {
	getBalances           *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	openSettlement        *connect.Client[api.OpenSettlementRequest, api.OpenSettlementResponse]
	finalizeSettlement    *connect.Client[api.FinalizeSettlementRequest, api.FinalizeSettlementResponse]
	getOpenSettlement     *connect.Client[api.GetOpenSettlementRequest, api.GetOpenSettlementResponse]
	getSettlement         *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	listSettlementHistory *connect.Client[api.ListSettlementHistoryRequest, api.ListSettlementHistoryResponse]
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) OpenSettlement(ctx context.Context, req *connect.Request[api.OpenSettlementRequest]) (*connect.Response[api.OpenSettlementResponse], error) {
	return c.openSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) FinalizeSettlement(ctx context.Context, req *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error) {
	return c.finalizeSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetOpenSettlement(ctx context.Context, req *connect.Request[api.GetOpenSettlementRequest]) (*connect.Response[api.GetOpenSettlementResponse], error) {
	return c.getOpenSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlementHistory(ctx context.Context, req *connect.Request[api.ListSettlementHistoryRequest]) (*connect.Response[api.ListSettlementHistoryResponse], error) {
	return c.listSettlementHistory.CallUnary(ctx, req)
}

// SettlementServiceHandler is an implementation of the household.v1.SettlementService service.
type SettlementServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	OpenSettlement(context.Context, *connect.Request[api.OpenSettlementRequest]) (*connect.Response[api.OpenSettlementResponse], error)
	FinalizeSettlement(context.Context, *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error)
	GetOpenSettlement(context.Context, *connect.Request[api.GetOpenSettlementRequest]) (*connect.Response[api.GetOpenSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlementHistory(context.Context, *connect.Request[api.ListSettlementHistoryRequest]) (*connect.Response[api.ListSettlementHistoryResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getBalances := connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts...)
	openSettlement := connect.NewUnaryHandler(SettlementServiceOpenSettlementProcedure, svc.OpenSettlement, opts...)
	finalizeSettlement := connect.NewUnaryHandler(SettlementServiceFinalizeSettlementProcedure, svc.FinalizeSettlement, opts...)
	getOpenSettlement := connect.NewUnaryHandler(SettlementServiceGetOpenSettlementProcedure, svc.GetOpenSettlement, opts...)
	getSettlement := connect.NewUnaryHandler(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts...)
	listSettlementHistory := connect.NewUnaryHandler(SettlementServiceListSettlementHistoryProcedure, svc.ListSettlementHistory, opts...)
	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case SettlementServiceOpenSettlementProcedure:
			openSettlement.ServeHTTP(w, r)
		case SettlementServiceFinalizeSettlementProcedure:
			finalizeSettlement.ServeHTTP(w, r)
		case SettlementServiceGetOpenSettlementProcedure:
			getOpenSettlement.ServeHTTP(w, r)
		case SettlementServiceGetSettlementProcedure:
			getSettlement.ServeHTTP(w, r)
		case SettlementServiceListSettlementHistoryProcedure:
			listSettlementHistory.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.SettlementService.GetBalances is not implemented"))
}

func (UnimplementedSettlementServiceHandler) OpenSettlement(context.Context, *connect.Request[api.OpenSettlementRequest]) (*connect.Response[api.OpenSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.SettlementService.OpenSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) FinalizeSettlement(context.Context, *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.SettlementService.FinalizeSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) GetOpenSettlement(context.Context, *connect.Request[api.GetOpenSettlementRequest]) (*connect.Response[api.GetOpenSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.SettlementService.GetOpenSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.SettlementService.GetSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListSettlementHistory(context.Context, *connect.Request[api.ListSettlementHistoryRequest]) (*connect.Response[api.ListSettlementHistoryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("household.v1.SettlementService.ListSettlementHistory is not implemented"))
}
