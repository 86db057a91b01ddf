package onebot

import (
	"testing"

	"github.com/wisphq/wisp/internal/message"
)

func TestParseChain(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []message.Element
	}{
		{
			name: "plain text only",
			raw:  "hello",
			want: []message.Element{message.Plain{Text: "hello"}},
		},
		{
			name: "mention then text",
			raw:  "[CQ:at,qq=123] hi",
			want: []message.Element{message.At{Target: "123"}, message.Plain{Text: " hi"}},
		},
		{
			name: "reply face image",
			raw:  "[CQ:reply,id=9][CQ:face,id=smile][CQ:image,file=a.png]",
			want: []message.Element{
				message.Reply{MessageID: "9"},
				message.Face{ID: "smile"},
				message.Image{File: "a.png"},
			},
		},
		{
			name: "escaped text unescaped",
			raw:  "a&#91;b&#93;&amp;c",
			want: []message.Element{message.Plain{Text: "a[b]&c"}},
		},
		{
			name: "escaped parameter value",
			raw:  "[CQ:at,qq=1&#44;2]",
			want: []message.Element{message.At{Target: "1,2"}},
		},
		{
			name: "unknown segment kept verbatim",
			raw:  "[CQ:record,file=x]done",
			want: []message.Element{
				message.Plain{Text: "[CQ:record,file=x]"},
				message.Plain{Text: "done"},
			},
		},
		{
			name: "unterminated segment kept as text",
			raw:  "hi [CQ:at,qq=1",
			want: []message.Element{
				message.Plain{Text: "hi "},
				message.Plain{Text: "[CQ:at,qq=1"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseChain(tc.raw).Elements()
			if len(got) != len(tc.want) {
				t.Fatalf("parsed %#v, want %#v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("element %d = %#v, want %#v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseChainRoundTrip(t *testing.T) {
	original := message.New(
		message.Reply{MessageID: "7"},
		message.At{Target: "42"},
		message.Plain{Text: " ping [now]"},
	)
	parsed := ParseChain(original.Code())
	if parsed.Code() != original.Code() {
		t.Fatalf("round trip = %q, want %q", parsed.Code(), original.Code())
	}
}
