package graphql_test

import (
	"context"
	"encoding/json"
	"testing"

	gql "github.com/99designs/gqlgen/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/dhlquote/internal/graphql"
	"github.com/tournevent/dhlquote/pkg/shipper"
	"github.com/tournevent/dhlquote/pkg/shipper/mock"
)

func newTestExecutor(t *testing.T, quoter *mock.Client) *graphql.Executor {
	t.Helper()

	resolver, _ := newTestResolver(t, quoter)
	exec, err := graphql.NewExecutor(resolver)
	require.NoError(t, err)
	return exec
}

func TestSchema_Loads(t *testing.T) {
	schema, err := graphql.Schema()
	require.NoError(t, err)

	require.NotNil(t, schema.Mutation)
	for _, name := range []string{"quote", "quoteInternational", "quoteDomestic", "quoteBatch"} {
		assert.NotNil(t, schema.Mutation.Fields.ForName(name), name)
	}
	assert.NotNil(t, schema.Types["QuoteResult"])
	assert.Contains(t, graphql.SDL(), "enum Mode")
}

func TestExecutor_Health(t *testing.T) {
	exec := newTestExecutor(t, mock.New("dhl"))

	resp := exec.Exec(context.Background(), &gql.RawParams{Query: `{ health services __typename }`})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"health":true,"services":["dhl","dhl-nacional"],"__typename":"Query"}`, string(resp.Data))
}

func TestExecutor_QuoteDomesticWithVariables(t *testing.T) {
	exec := newTestExecutor(t, mock.New("dhl"))

	resp := exec.Exec(context.Background(), &gql.RawParams{
		Query: `mutation Quote($input: ShipmentInput!) {
			quote(input: $input) {
				success
				mode
				service
				price
				deliveryDays
				error { code }
			}
		}`,
		Variables: map[string]any{
			"input": map[string]any{
				"originPostalCode":      "06711280",
				"destinationPostalCode": "20040002",
				"originCountry":         "BR",
				"destinationCountry":    "BR",
				"packages": []any{
					map[string]any{"length": 10.0, "width": 10.0, "height": 10.0, "weight": 1.0},
				},
			},
		},
	})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"quote":{
		"success":true,
		"mode":"DOMESTIC",
		"service":"dhl-nacional",
		"price":"R$ 60",
		"deliveryDays":3,
		"error":null
	}}`, string(resp.Data))
}

func TestExecutor_InlineArgumentsAliasesAndFragments(t *testing.T) {
	quoter := mock.New("dhl")
	var got *shipper.InternationalRequest
	quoter.OnQuoteInternational = func(ctx context.Context, req *shipper.InternationalRequest) (*shipper.InternationalQuote, error) {
		got = req
		return mock.New("dhl").QuoteInternational(ctx, req)
	}
	exec := newTestExecutor(t, quoter)

	resp := exec.Exec(context.Background(), &gql.RawParams{
		Query: `
		mutation {
			intl: quoteInternational(input: {
				originCountry: "BR"
				originCity: "COTIA"
				destinationCountry: "us"
				destinationCity: "NEW YORK"
				weight: 3
			}) {
				...Outcome
				products { product deliveryRange price }
			}
		}
		fragment Outcome on QuoteResult {
			ok: success
			mode
			__typename
		}`,
	})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"intl":{
		"ok":true,
		"mode":"INTERNATIONAL",
		"__typename":"QuoteResult",
		"products":[{"product":"EXPRESS WORLDWIDE","deliveryRange":"3 - 5","price":"R$ 980,00"}]
	}}`, string(resp.Data))

	require.NotNil(t, got)
	assert.Equal(t, "US", got.DestinationCountry)
	assert.Equal(t, 3.0, got.Weight)
}

func TestExecutor_KeepsSelectionOrder(t *testing.T) {
	exec := newTestExecutor(t, mock.New("dhl"))

	resp := exec.Exec(context.Background(), &gql.RawParams{Query: `{ services health }`})

	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"services":["dhl","dhl-nacional"],"health":true}`, string(resp.Data))
}

func TestExecutor_SkipAndInclude(t *testing.T) {
	exec := newTestExecutor(t, mock.New("dhl"))

	resp := exec.Exec(context.Background(), &gql.RawParams{
		Query:     `query Q($hide: Boolean!) { health @skip(if: $hide) services @include(if: $hide) }`,
		Variables: map[string]any{"hide": true},
	})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"services":["dhl","dhl-nacional"]}`, string(resp.Data))
}

func TestExecutor_Batch(t *testing.T) {
	exec := newTestExecutor(t, mock.New("dhl"))

	resp := exec.Exec(context.Background(), &gql.RawParams{
		Query: `mutation Batch($inputs: [ShipmentInput!]!) {
			quoteBatch(inputs: $inputs) { success mode error { code } }
		}`,
		Variables: map[string]any{
			"inputs": []any{
				map[string]any{"originCountry": "BR", "destinationCountry": "US", "weight": 2.0},
				map[string]any{"originCountry": "BR", "mode": "DOMESTIC"},
			},
		},
	})

	require.Empty(t, resp.Errors)

	var data struct {
		QuoteBatch []struct {
			Success bool
			Mode    string
			Error   *struct{ Code string }
		}
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Len(t, data.QuoteBatch, 2)
	assert.True(t, data.QuoteBatch[0].Success)
	assert.Equal(t, "INTERNATIONAL", data.QuoteBatch[0].Mode)
	assert.False(t, data.QuoteBatch[1].Success)
	assert.Equal(t, "INVALID_REQUEST", data.QuoteBatch[1].Error.Code)
}

func TestExecutor_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params gql.RawParams
	}{
		{
			name:   "syntax error",
			params: gql.RawParams{Query: `{ health`},
		},
		{
			name:   "unknown field",
			params: gql.RawParams{Query: `{ carriers }`},
		},
		{
			name:   "missing required argument",
			params: gql.RawParams{Query: `mutation { quote { success } }`},
		},
		{
			name: "invalid enum variable",
			params: gql.RawParams{
				Query:     `mutation M($input: ShipmentInput!) { quote(input: $input) { success } }`,
				Variables: map[string]any{"input": map[string]any{"originCountry": "BR", "mode": "SEA"}},
			},
		},
		{
			name: "missing variable",
			params: gql.RawParams{
				Query: `mutation M($input: ShipmentInput!) { quote(input: $input) { success } }`,
			},
		},
		{
			name:   "unknown operation",
			params: gql.RawParams{Query: `query A { health }`, OperationName: "B"},
		},
		{
			name:   "ambiguous operation",
			params: gql.RawParams{Query: `query A { health } query B { services }`},
		},
	}

	exec := newTestExecutor(t, mock.New("dhl"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := exec.Exec(context.Background(), &tt.params)

			assert.NotEmpty(t, resp.Errors)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestExecutor_SelectsNamedOperation(t *testing.T) {
	exec := newTestExecutor(t, mock.New("dhl"))

	resp := exec.Exec(context.Background(), &gql.RawParams{
		Query:         `query A { health } query B { services }`,
		OperationName: "B",
	})

	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"services":["dhl","dhl-nacional"]}`, string(resp.Data))
}
