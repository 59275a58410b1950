// Package lang compiles pyx source, Python extended with inline tag
// literals, into plain Python.
//
// # Tag literals
//
// A tag literal may appear anywhere an expression is expected:
//
//	def card(title, body):
//	    return <div class="card">
//	        <h1>{title}</h1>
//	        {body}
//	    </div>
//
// Each element is lowered into two calls. The first passes the attributes as
// keyword arguments and returns a builder; the second passes the children:
//
//	def card(title, body):
//	    return div(_class='card')(h1()(lambda: title), lambda: body)
//
// Interpolated values that are not constants or other elements are wrapped
// in zero-argument lambdas so that the rendering library decides when to
// evaluate them. The attribute name class is passed as _class.
//
// # Pipeline
//
// [Parse] produces the concrete syntax tree ([cst.Node]), [Transform] the
// abstract syntax tree ([ast.Module]), and [Transpile] the Python source.
// [Compile] additionally records the module's top-level symbols and imports
// in a [Unit], which is what the loader caches on disk.
//
// Errors match one of [ErrSyntax], [ErrStructure], [ErrEmit], or [ErrRead]
// under [errors.Is]. Positioned errors can be rendered with a source snippet
// by [Describe].
package lang
