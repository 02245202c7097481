package curl

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse_SimpleGet(t *testing.T) {
	cmd, err := Parse(`curl https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cmd.Method != "GET" {
		t.Errorf("expected method GET, got %s", cmd.Method)
	}
	if cmd.URL != "https://api.example.com/users" {
		t.Errorf("expected URL https://api.example.com/users, got %s", cmd.URL)
	}
}

func TestParse_DataDefaultsToPost(t *testing.T) {
	cmd, err := Parse(`curl https://api.example.com/users -d 'a=1' --data b=2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cmd.Method != "POST" {
		t.Errorf("expected method POST, got %s", cmd.Method)
	}
	if cmd.Body() != "a=1&b=2" {
		t.Errorf("expected joined body a=1&b=2, got %s", cmd.Body())
	}
}

func TestParse_Continuations(t *testing.T) {
	cmd, err := Parse("curl -X PUT \\\n  -H 'X-Trace: 1' \\\n  https://api.example.com/items/9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cmd.Method != "PUT" || cmd.URL != "https://api.example.com/items/9" {
		t.Errorf("unexpected command %+v", cmd)
	}
	if len(cmd.Headers) != 1 || cmd.Headers[0] != (Header{Name: "X-Trace", Value: "1"}) {
		t.Errorf("unexpected headers %+v", cmd.Headers)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"not curl":       `wget https://example.com`,
		"no url":         `curl -X GET`,
		"missing value":  `curl https://example.com -H`,
		"unterminated":   `curl 'https://example.com`,
		"unknown option": `curl --form a=1 https://example.com`,
		"two urls":       `curl https://a.example https://b.example`,
		"bad header":     `curl -H 'nocolon' https://example.com`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		})
	}
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "get",
			input: `curl -s https://api.example.com/users?page=2`,
			want:  []string{"get", "https://api.example.com/users?page=2"},
		},
		{
			name:  "json body",
			input: `curl -X POST https://api.example.com/users -H 'Content-Type: application/json' -d '{"name":"Ada","age":36,"tags":["a"]}'`,
			want:  []string{"post", "https://api.example.com/users", "name=Ada", "age:=36", `tags:=["a"]`, "--json"},
		},
		{
			name:  "form body",
			input: `curl https://api.example.com/login -d 'user=ada%40example.com&remember=1'`,
			want:  []string{"post", "https://api.example.com/login", "user=ada@example.com", "remember=1"},
		},
		{
			name:  "delete with auth",
			input: `curl -X DELETE -u admin:secret -k https://api.example.com/users/7`,
			want:  []string{"del", "https://api.example.com/users/7", "-H", "Authorization: Basic YWRtaW46c2VjcmV0", "--insecure"},
		},
		{
			name:  "get with data",
			input: `curl -G https://api.example.com/search --data-urlencode 'q=hello world'`,
			want:  []string{"get", "https://api.example.com/search", "q=hello world"},
		},
		{
			name:  "headers and proxy",
			input: `curl -A hitfetch/1 -H 'Accept: text/plain' -x http://proxy:8080 https://api.example.com`,
			want:  []string{"get", "https://api.example.com", "-H", "User-Agent: hitfetch/1", "-H", "Accept: text/plain", "--proxy", "http://proxy:8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got, err := cmd.Args()
			if err != nil {
				t.Fatalf("args: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestArgs_Unsupported(t *testing.T) {
	for _, input := range []string{
		`curl -X PATCH https://api.example.com/users/1`,
		`curl -X GET https://api.example.com/users -d a=1`,
		`curl https://api.example.com/users -H 'Content-Type: application/json' -d '[1,2]'`,
		`curl https://api.example.com/users -d '{"broken"'`,
	} {
		cmd, err := Parse(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if _, err := cmd.Args(); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestParseAll(t *testing.T) {
	input := `# users
curl https://api.example.com/users

curl -X POST \
  https://api.example.com/users \
  -d name=Ada
`
	cmds, err := ParseAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[1].Method != "POST" || cmds[1].Body() != "name=Ada" {
		t.Errorf("unexpected second command %+v", cmds[1])
	}

	_, err = ParseAll(strings.NewReader("curl https://ok.example\ncurl -X\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestShellJoin(t *testing.T) {
	got := ShellJoin([]string{"hitfetch", "post", "/users", "name=Ada Lovelace", `tags:=["a"]`, "it's", ""})
	want := `hitfetch post /users 'name=Ada Lovelace' 'tags:=["a"]' 'it'\''s' ''`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}
