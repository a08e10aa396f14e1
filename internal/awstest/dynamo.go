// Package awstest provides in-memory implementations of the narrow AWS client
// interfaces for unit tests. They are intentionally minimal: just enough of the
// DynamoDB expression grammar to back the stores in this repository.
package awstest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MockDynamo is an in-memory DynamoDB with per-table primary keys.
type MockDynamo struct {
	mu     sync.Mutex
	keys   map[string]string
	tables map[string][]map[string]types.AttributeValue
}

func NewMockDynamo() *MockDynamo {
	return &MockDynamo{
		keys:   map[string]string{},
		tables: map[string][]map[string]types.AttributeValue{},
	}
}

// AddTable registers a table and the attribute name of its primary key.
func (m *MockDynamo) AddTable(name, pkAttr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[name] = pkAttr
	m.tables[name] = nil
}

// Count returns the number of items in a table.
func (m *MockDynamo) Count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

// Items returns a shallow copy of all items in a table.
func (m *MockDynamo) Items(table string) []map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]types.AttributeValue, len(m.tables[table]))
	copy(out, m.tables[table])
	return out
}

func (m *MockDynamo) pkValue(table string, item map[string]types.AttributeValue) (string, error) {
	pkAttr, ok := m.keys[table]
	if !ok {
		return "", fmt.Errorf("unknown table %q", table)
	}
	attr, ok := item[pkAttr].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("table %q: missing string key attribute %q", table, pkAttr)
	}
	return attr.Value, nil
}

func (m *MockDynamo) find(table, pk string) (int, map[string]types.AttributeValue) {
	pkAttr := m.keys[table]
	for i, item := range m.tables[table] {
		if attr, ok := item[pkAttr].(*types.AttributeValueMemberS); ok && attr.Value == pk {
			return i, item
		}
	}
	return -1, nil
}

func (m *MockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	pk, err := m.pkValue(table, params.Item)
	if err != nil {
		return nil, err
	}

	idx, _ := m.find(table, pk)
	if params.ConditionExpression != nil {
		if err := checkCondition(*params.ConditionExpression, params.ExpressionAttributeNames, idx >= 0); err != nil {
			return nil, err
		}
	}

	if idx >= 0 {
		m.tables[table][idx] = params.Item
	} else {
		m.tables[table] = append(m.tables[table], params.Item)
	}
	return &dyn.PutItemOutput{}, nil
}

func (m *MockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	pk, err := m.pkValue(table, params.Key)
	if err != nil {
		return nil, err
	}
	if _, item := m.find(table, pk); item != nil {
		return &dyn.GetItemOutput{Item: item}, nil
	}
	return &dyn.GetItemOutput{}, nil
}

func (m *MockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	pk, err := m.pkValue(table, params.Key)
	if err != nil {
		return nil, err
	}

	idx, item := m.find(table, pk)
	if params.ConditionExpression != nil {
		if err := checkCondition(*params.ConditionExpression, params.ExpressionAttributeNames, idx >= 0); err != nil {
			return nil, err
		}
	}
	if idx < 0 {
		// unconditional update upserts, matching DynamoDB semantics
		item = map[string]types.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
		m.tables[table] = append(m.tables[table], item)
		idx = len(m.tables[table]) - 1
	}

	updated := cloneItem(item)
	if params.UpdateExpression != nil {
		if err := applyUpdate(updated, *params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues); err != nil {
			return nil, err
		}
	}
	m.tables[table][idx] = updated

	return &dyn.UpdateItemOutput{Attributes: updated}, nil
}

func (m *MockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	pk, err := m.pkValue(table, params.Key)
	if err != nil {
		return nil, err
	}
	if idx, _ := m.find(table, pk); idx >= 0 {
		m.tables[table] = append(m.tables[table][:idx], m.tables[table][idx+1:]...)
	}
	return &dyn.DeleteItemOutput{}, nil
}

// Query supports key conditions of the form "attr = :val", which is all the
// stores use (equality against a table key or a GSI key). IndexName is ignored.
func (m *MockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if params.KeyConditionExpression == nil {
		return nil, errors.New("missing key condition expression")
	}
	expr := substituteNames(*params.KeyConditionExpression, params.ExpressionAttributeNames)
	parts := strings.SplitN(expr, "=", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("unsupported key condition %q", expr)
	}
	attr := strings.TrimSpace(parts[0])
	placeholder := strings.TrimSpace(parts[1])
	want, ok := params.ExpressionAttributeValues[placeholder].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("missing value for %q", placeholder)
	}

	var items []map[string]types.AttributeValue
	for _, item := range m.tables[*params.TableName] {
		if got, ok := item[attr].(*types.AttributeValueMemberS); ok && got.Value == want.Value {
			items = append(items, item)
		}
	}
	return &dyn.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (m *MockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.tables[*params.TableName]
	return &dyn.ScanOutput{Items: items, Count: int32(len(items))}, nil
}

func cloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func substituteNames(expr string, names map[string]string) string {
	for alias, name := range names {
		expr = strings.ReplaceAll(expr, alias, name)
	}
	return expr
}

// checkCondition handles attribute_exists(pk) / attribute_not_exists(pk),
// the only condition expressions the stores issue.
func checkCondition(expr string, names map[string]string, exists bool) error {
	expr = strings.TrimSpace(substituteNames(expr, names))
	switch {
	case strings.HasPrefix(expr, "attribute_not_exists("):
		if exists {
			return &types.ConditionalCheckFailedException{}
		}
	case strings.HasPrefix(expr, "attribute_exists("):
		if !exists {
			return &types.ConditionalCheckFailedException{}
		}
	default:
		return fmt.Errorf("unsupported condition expression %q", expr)
	}
	return nil
}

// applyUpdate evaluates "SET a = :x, b = :y" and "REMOVE a, b" expressions.
func applyUpdate(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	expr = substituteNames(expr, names)

	for _, section := range splitSections(expr) {
		switch {
		case strings.HasPrefix(section, "SET "):
			for _, assignment := range strings.Split(strings.TrimPrefix(section, "SET "), ",") {
				parts := strings.SplitN(assignment, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("unsupported SET clause %q", assignment)
				}
				attr := strings.TrimSpace(parts[0])
				placeholder := strings.TrimSpace(parts[1])
				val, ok := values[placeholder]
				if !ok {
					return fmt.Errorf("missing value for %q", placeholder)
				}
				item[attr] = val
			}
		case strings.HasPrefix(section, "REMOVE "):
			for _, attr := range strings.Split(strings.TrimPrefix(section, "REMOVE "), ",") {
				delete(item, strings.TrimSpace(attr))
			}
		default:
			return fmt.Errorf("unsupported update section %q", section)
		}
	}
	return nil
}

func splitSections(expr string) []string {
	var sections []string
	rest := strings.TrimSpace(expr)
	for rest != "" {
		next := len(rest)
		for _, kw := range []string{" SET ", " REMOVE "} {
			if i := strings.Index(rest[1:], kw); i >= 0 && i+1 < next {
				next = i + 1
			}
		}
		sections = append(sections, strings.TrimSpace(rest[:next]))
		rest = strings.TrimSpace(rest[next:])
	}
	return sections
}
