package grpc

import (
	"os"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readContract(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("proto/microblog.proto")
	require.NoError(t, err)
	return string(b)
}

func TestContract_DeclaresEveryMethod(t *testing.T) {
	contract := readContract(t)
	assert.Contains(t, contract, "package microblog;")
	assert.Contains(t, contract, "service Microblog {")

	rpc := regexp.MustCompile(`(?m)^(  // auth\n)?  rpc (\w+)\(`)
	declared := map[string]bool{}
	for _, m := range rpc.FindAllStringSubmatch(contract, -1) {
		declared[m[2]] = m[1] != ""
	}

	require.Len(t, declared, len(ServiceDesc.Methods))
	for _, m := range ServiceDesc.Methods {
		auth, ok := declared[m.MethodName]
		if assert.True(t, ok, "%s missing", m.MethodName) {
			assert.Equal(t, protectedMethods[fullMethod(m.MethodName)], auth, "%s auth marker", m.MethodName)
		}
	}
}

func TestContract_FieldsMatchJSONKeys(t *testing.T) {
	contract := readContract(t)

	blocks := map[string]string{}
	for _, m := range regexp.MustCompile(`message (\w+) \{([^}]*)\}`).FindAllStringSubmatch(contract, -1) {
		blocks[m[1]] = m[2]
	}

	messages := []any{
		RegisterRequest{}, RegisterResponse{}, LoginRequest{}, LoginResponse{},
		MeRequest{}, UpdateProfileRequest{}, UserResponse{}, CreatePostRequest{},
		CreatePostResponse{}, ListUserPostsRequest{}, ListUserPostsResponse{},
		PingRequest{}, PingResponse{}, User{}, Post{},
	}
	require.Len(t, blocks, len(messages))

	for _, msg := range messages {
		typ := reflect.TypeOf(msg)
		block, ok := blocks[typ.Name()]
		if !assert.True(t, ok, "message %s missing", typ.Name()) {
			continue
		}
		fields := regexp.MustCompile(`(?m)^\s+[\w.]+( \w+)? (\w+) = \d+`).FindAllStringSubmatch(block, -1)
		assert.Len(t, fields, typ.NumField(), typ.Name())
		for i := range typ.NumField() {
			key, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
			assert.Regexp(t, `\s`+key+` = \d+`, block, "%s.%s", typ.Name(), typ.Field(i).Name)
		}
	}
}
