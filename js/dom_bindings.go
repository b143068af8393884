package js

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/quickhtml/dom"
)

// DOMBinder provides methods to bind tree nodes to JavaScript.
type DOMBinder struct {
	runtime *Runtime
	nodeMap map[dom.Node]*goja.Object // same JS object for the same node
}

// NewDOMBinder creates a binder for runtime.
func NewDOMBinder(runtime *Runtime) *DOMBinder {
	return &DOMBinder{
		runtime: runtime,
		nodeMap: make(map[dom.Node]*goja.Object),
	}
}

// ClearCache forgets every bound node.
func (b *DOMBinder) ClearCache() {
	clear(b.nodeMap)
}

// BindNode returns the JS object for node, or null for nil.
func (b *DOMBinder) BindNode(node dom.Node) goja.Value {
	switch n := node.(type) {
	case *dom.Element:
		if n != nil {
			return b.BindElement(n)
		}
	case *dom.Text:
		if n != nil {
			return b.BindTextNode(n)
		}
	case *dom.Comment:
		if n != nil {
			return b.BindCommentNode(n)
		}
	}
	return goja.Null()
}

// getter defines a read-only accessor.
func (b *DOMBinder) getter(obj *goja.Object, name string, get func() any) {
	vm := b.runtime.vm
	obj.DefineAccessorProperty(name, vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(get())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// accessor defines a read-write accessor.
func (b *DOMBinder) accessor(obj *goja.Object, name string, get func() any, set func(goja.Value)) {
	vm := b.runtime.vm
	obj.DefineAccessorProperty(name, vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(get())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		set(call.Argument(0))
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// BindElement creates (or returns the cached) JavaScript object for el.
func (b *DOMBinder) BindElement(el *dom.Element) *goja.Object {
	if el == nil {
		return nil
	}
	if jsObj, ok := b.nodeMap[el]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsEl := vm.NewObject()
	jsEl.Set("_goNode", el)
	jsEl.Set("nodeType", int(dom.ElementNode))

	b.getter(jsEl, "tagName", func() any { return el.TagName() })
	b.getter(jsEl, "id", func() any { return el.ID() })
	b.getter(jsEl, "classNames", func() any { return el.ClassNames() })
	b.getter(jsEl, "text", func() any { return el.Text() })
	b.getter(jsEl, "rawText", func() any { return el.RawText() })
	b.getter(jsEl, "outerHTML", func() any { return el.OuterHTML() })
	b.getter(jsEl, "structure", func() any { return el.Structure() })
	b.getter(jsEl, "structuredText", func() any { return el.StructuredText() })
	b.accessor(jsEl, "innerHTML", func() any { return el.InnerHTML() }, func(v goja.Value) {
		el.SetInnerHTML(v.String())
	})
	if el.TagName() == "" {
		b.getter(jsEl, "valid", func() any { return el.Valid() })
	}

	b.getter(jsEl, "attributes", func() any {
		attrs := vm.NewObject()
		for _, a := range el.AttributeList() {
			attrs.Set(a.Key, a.Value)
		}
		return attrs
	})
	b.getter(jsEl, "rawAttributes", func() any {
		attrs := vm.NewObject()
		for _, a := range el.AttributeList() {
			attrs.Set(a.Key, a.Raw)
		}
		return attrs
	})

	// Tree navigation
	b.getter(jsEl, "childNodes", func() any { return b.bindNodes(el.ChildNodes()) })
	b.getter(jsEl, "children", func() any { return b.bindElements(el.Children()) })
	b.getter(jsEl, "firstChild", func() any { return b.BindNode(el.FirstChild()) })
	b.getter(jsEl, "lastChild", func() any { return b.BindNode(el.LastChild()) })
	b.getter(jsEl, "parentNode", func() any { return b.bindParent(el.ParentNode()) })

	jsEl.Set("toString", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(el.String())
	})

	// Queries
	jsEl.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		found, err := el.QuerySelector(call.Argument(0).String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		if found == nil {
			return goja.Null()
		}
		return b.BindElement(found)
	})
	jsEl.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		found, err := el.QuerySelectorAll(call.Argument(0).String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return b.bindElements(found)
	})

	// Attribute methods
	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := el.Attribute(call.Argument(0).String())
		if !ok {
			return goja.Undefined()
		}
		return vm.ToValue(v)
	})
	jsEl.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.HasAttribute(call.Argument(0).String()))
	})
	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		key := call.Argument(0).String()
		if v := call.Argument(1); goja.IsUndefined(v) {
			el.RemoveAttribute(key)
		} else {
			el.SetAttribute(key, v.String())
		}
		return jsEl
	})
	jsEl.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttribute(call.Argument(0).String())
		return jsEl
	})
	jsEl.Set("setAttributes", func(call goja.FunctionCall) goja.Value {
		attrs := map[string]string{}
		if o, ok := call.Argument(0).(*goja.Object); ok {
			for _, k := range o.Keys() {
				attrs[k] = o.Get(k).String()
			}
		}
		el.SetAttributes(attrs)
		return jsEl
	})

	// Mutation methods
	jsEl.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		el.AppendChild(b.mustGoNode(call.Argument(0)))
		return call.Argument(0)
	})
	jsEl.Set("prependChild", func(call goja.FunctionCall) goja.Value {
		el.PrependChild(b.mustGoNode(call.Argument(0)))
		return call.Argument(0)
	})
	jsEl.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		el.RemoveChild(b.mustGoNode(call.Argument(0)))
		return jsEl
	})
	jsEl.Set("exchangeChild", func(call goja.FunctionCall) goja.Value {
		el.ExchangeChild(b.mustGoNode(call.Argument(0)), b.mustGoNode(call.Argument(1)))
		return jsEl
	})
	jsEl.Set("remove", func(goja.FunctionCall) goja.Value {
		el.Remove()
		return jsEl
	})
	jsEl.Set("removeWhitespace", func(goja.FunctionCall) goja.Value {
		el.RemoveWhitespace()
		return jsEl
	})

	b.nodeMap[el] = jsEl
	return jsEl
}

// BindTextNode creates a JavaScript object for a text node.
func (b *DOMBinder) BindTextNode(node *dom.Text) *goja.Object {
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}
	jsNode := b.bindCharacterData(node, node.Value, node.SetValue)
	b.getter(jsNode, "isWhitespace", func() any { return node.IsWhitespace() })
	return jsNode
}

// BindCommentNode creates a JavaScript object for a comment node.
func (b *DOMBinder) BindCommentNode(node *dom.Comment) *goja.Object {
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}
	return b.bindCharacterData(node, node.Value, node.SetValue)
}

func (b *DOMBinder) bindCharacterData(node dom.Node, value func() string, setValue func(string)) *goja.Object {
	vm := b.runtime.vm
	jsNode := vm.NewObject()
	jsNode.Set("_goNode", node)
	jsNode.Set("nodeType", int(node.NodeType()))

	// Setting null yields an empty string.
	b.accessor(jsNode, "value", func() any { return value() }, func(v goja.Value) {
		if goja.IsNull(v) || goja.IsUndefined(v) {
			setValue("")
			return
		}
		setValue(v.String())
	})
	b.getter(jsNode, "text", func() any { return node.Text() })
	b.getter(jsNode, "rawText", func() any { return node.RawText() })
	b.getter(jsNode, "parentNode", func() any { return b.bindParent(node.ParentNode()) })

	jsNode.Set("toString", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(node.String())
	})
	jsNode.Set("remove", func(goja.FunctionCall) goja.Value {
		node.Remove()
		return jsNode
	})

	b.nodeMap[node] = jsNode
	return jsNode
}

func (b *DOMBinder) bindParent(p *dom.Element) goja.Value {
	if p == nil {
		return goja.Null()
	}
	return b.BindElement(p)
}

func (b *DOMBinder) bindNodes(nodes []dom.Node) *goja.Object {
	items := make([]any, len(nodes))
	for i, n := range nodes {
		items[i] = b.BindNode(n)
	}
	return b.runtime.vm.NewArray(items...)
}

func (b *DOMBinder) bindElements(els []*dom.Element) *goja.Object {
	items := make([]any, len(els))
	for i, el := range els {
		items[i] = b.BindElement(el)
	}
	return b.runtime.vm.NewArray(items...)
}

// getGoNode returns the tree node behind a bound object, or nil.
func (b *DOMBinder) getGoNode(v goja.Value) dom.Node {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	if gv := obj.Get("_goNode"); gv != nil && !goja.IsUndefined(gv) && !goja.IsNull(gv) {
		if node, ok := gv.Export().(dom.Node); ok {
			return node
		}
	}
	return nil
}

// mustGoNode throws a TypeError when v is not a bound node.
func (b *DOMBinder) mustGoNode(v goja.Value) dom.Node {
	node := b.getGoNode(v)
	if node == nil {
		panic(b.runtime.vm.NewTypeError(fmt.Sprintf("%s is not a node", formatValue(v))))
	}
	return node
}
