package js

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	return New(Options{Logger: zaptest.NewLogger(t)})
}

func mustRun(t *testing.T, r *Runtime, code string) string {
	t.Helper()
	result, err := r.Run(code)
	if err != nil {
		t.Fatalf("Run(%q) failed: %v", code, err)
	}
	return result.String()
}

func TestBindingElementProperties(t *testing.T) {
	r := newTestRuntime(t)
	mustRun(t, r, `var root = parse('<p id="id" class="a b" data-x="1&amp;2"><span>Hello</span> world</p>')`)

	tests := []struct {
		expr string
		want string
	}{
		{"root.firstChild.tagName", "p"},
		{"root.firstChild.id", "id"},
		{"root.firstChild.classNames.join(',')", "a,b"},
		{"root.firstChild.nodeType", "1"},
		{"root.firstChild.text", "Hello world"},
		{"root.firstChild.attributes['data-x']", "1&2"},
		{"root.firstChild.rawAttributes['data-x']", "1&amp;2"},
		{"Object.keys(root.firstChild.attributes).join(',')", "id,class,data-x"},
		{"root.firstChild.getAttribute('data-x')", "1&2"},
		{"typeof root.firstChild.getAttribute('nope')", "undefined"},
		{"root.firstChild.innerHTML", "<span>Hello</span> world"},
		{"root.firstChild.outerHTML", `<p id="id" class="a b" data-x="1&amp;2"><span>Hello</span> world</p>`},
		{"root.firstChild.childNodes.length", "2"},
		{"root.firstChild.children.length", "1"},
		{"root.firstChild.lastChild.nodeType", "3"},
		{"root.firstChild.lastChild.value", " world"},
		{"root.firstChild.parentNode === root", "true"},
		{"root.parentNode === null", "true"},
		{"root.valid", "true"},
		{"typeof root.firstChild.valid", "undefined"},
		{"root.structure", "\n  p#id.a.b\n    span\n      #text\n    #text"},
	}
	for _, tt := range tests {
		if got := mustRun(t, r, tt.expr); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestBindingIdentity(t *testing.T) {
	r := newTestRuntime(t)
	got := mustRun(t, r, `
		var root = parse('<ul><li class="x">1</li><li>2</li></ul>');
		var li = root.querySelector('li.x');
		[
			li === root.firstChild.firstChild,
			li.parentNode === root.firstChild,
			root.querySelectorAll('li')[0] === li,
			li.firstChild === li.childNodes[0],
		].join(',')`)
	if got != "true,true,true,true" {
		t.Errorf("Expected identical objects, got %s", got)
	}
}

func TestBindingQueries(t *testing.T) {
	r := newTestRuntime(t)
	mustRun(t, r, `var root = parse('<a id="id"><div><span id="3" class="a b"></span><span></span></div></a>')`)

	if got := mustRun(t, r, `root.querySelectorAll('#id, #id .b').map(function (e) { return e.tagName }).join(',')`); got != "a,span" {
		t.Errorf("Expected a,span, got %s", got)
	}
	if got := mustRun(t, r, `root.querySelector('table') === null`); got != "true" {
		t.Errorf("Expected null for a missing element, got %s", got)
	}

	_, err := r.Run(`root.querySelector('[a%=b]')`)
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("Expected unsupported operator error, got %v", err)
	}
}

func TestBindingAttributes(t *testing.T) {
	r := newTestRuntime(t)
	mustRun(t, r, `var p = parse('<p a=12 b=13></p>').firstChild`)

	tests := []struct {
		code string
		want string
	}{
		{"p.setAttribute('a', '14').toString()", `<p a="14" b="13"></p>`},
		{"p.setAttribute('b', undefined).toString()", `<p a="14"></p>`},
		{"p.setAttribute('required', '').toString()", `<p a="14" required></p>`},
		{"p.hasAttribute('required')", "true"},
		{"p.removeAttribute('required').toString()", `<p a="14"></p>`},
		{"p.setAttributes({c: 12}).toString()", `<p c="12"></p>`},
	}
	for _, tt := range tests {
		if got := mustRun(t, r, tt.code); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestBindingMutation(t *testing.T) {
	r := newTestRuntime(t)
	got := mustRun(t, r, `
		var root = parse('<div id="a"><span></span></div><div id="b"></div><p>new</p>');
		var a = root.querySelector('#a'), b = root.querySelector('#b');
		var span = a.firstChild;
		b.appendChild(span);
		b.prependChild(root.querySelector('p'));
		b.exchangeChild(span, parse('<i>x</i>').firstChild);
		a.remove();
		root.toString()`)
	if want := `<div id="b"><p>new</p><i>x</i></div>`; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	got = mustRun(t, r, `
		var d = parse('<div> \n <h5> 123 </h5></div>').firstChild;
		d.removeWhitespace().toString()`)
	if want := "<div><h5>123</h5></div>"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	got = mustRun(t, r, `
		var d = parse('<div><i>old</i></div>').firstChild;
		d.innerHTML = '<b>new</b>';
		d.removeChild(d.firstChild);
		d.toString()`)
	if want := "<div></div>"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestBindingTextAndComment(t *testing.T) {
	r := newTestRuntime(t)
	mustRun(t, r, `var root = parse('<p>a &amp; b<!-- note --> </p>', {comment: true}); var p = root.firstChild`)

	tests := []struct {
		expr string
		want string
	}{
		{"p.childNodes[0].text", "a & b"},
		{"p.childNodes[0].rawText", "a &amp; b"},
		{"p.childNodes[0].isWhitespace", "false"},
		{"p.childNodes[1].nodeType", "8"},
		{"p.childNodes[1].value", " note "},
		{"p.childNodes[1].toString()", "<!-- note -->"},
		{"p.childNodes[2].isWhitespace", "true"},
		{"typeof p.childNodes[1].isWhitespace", "undefined"},
		{"p.childNodes[1].parentNode === p", "true"},
	}
	for _, tt := range tests {
		if got := mustRun(t, r, tt.expr); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
		}
	}

	got := mustRun(t, r, `p.childNodes[0].value = 'changed'; p.childNodes[1].remove(); p.toString()`)
	if want := "<p>changed </p>"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestBindingStructuredText(t *testing.T) {
	r := newTestRuntime(t)
	if got := mustRun(t, r, `parse('<span>o<p>a</p><p>b</p>c</span>').structuredText`); got != "o\na\nb\nc" {
		t.Errorf("Expected structured text, got %q", got)
	}
}
