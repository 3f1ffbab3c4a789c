package ir

import (
	"fmt"
	"strings"
)

// PrintExpr returns a single-line textual rendering of e, in the style of
// the teacher's Node.String(): a tag followed by bracketed operands.
func PrintExpr(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch n := e.(type) {
	case *IntImm:
		return fmt.Sprintf("%d", n.Value)
	case *FloatImm:
		return fmt.Sprintf("%g", n.Value)
	case *Cast:
		return fmt.Sprintf("cast(%s, %s)", n.Typ, PrintExpr(n.Value))
	case *Variable:
		return n.Name
	case *BinExpr:
		ops := [...]string{"+", "-", "*", "/", "%"}
		return fmt.Sprintf("(%s %s %s)", PrintExpr(n.A), ops[n.Op], PrintExpr(n.B))
	case *Min:
		return fmt.Sprintf("min(%s, %s)", PrintExpr(n.A), PrintExpr(n.B))
	case *Max:
		return fmt.Sprintf("max(%s, %s)", PrintExpr(n.A), PrintExpr(n.B))
	case *Compare:
		ops := [...]string{"==", "!=", "<", "<=", ">", ">="}
		return fmt.Sprintf("(%s %s %s)", PrintExpr(n.A), ops[n.Op], PrintExpr(n.B))
	case *And:
		return fmt.Sprintf("(%s && %s)", PrintExpr(n.A), PrintExpr(n.B))
	case *Or:
		return fmt.Sprintf("(%s || %s)", PrintExpr(n.A), PrintExpr(n.B))
	case *Not:
		return fmt.Sprintf("!%s", PrintExpr(n.X))
	case *Select:
		return fmt.Sprintf("select(%s, %s, %s)", PrintExpr(n.Cond), PrintExpr(n.True), PrintExpr(n.False))
	case *Load:
		return fmt.Sprintf("%s[%s]", n.Buffer, PrintExpr(n.Index))
	case *Ramp:
		return fmt.Sprintf("ramp(%s, %s, %d)", PrintExpr(n.Base), PrintExpr(n.Stride), n.Lanes)
	case *Broadcast:
		return fmt.Sprintf("x%d(%s)", n.Lanes, PrintExpr(n.Value))
	case *Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = PrintExpr(a)
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
	case *Let:
		return fmt.Sprintf("(let %s = %s in %s)", n.Name, PrintExpr(n.Value), PrintExpr(n.Body))
	default:
		return "<unknown expr>"
	}
}

// PrintStmt returns an indented multi-line textual rendering of s, in the
// style of the teacher's Node.Print(depth, showDepth).
func PrintStmt(s Stmt, depth int) string {
	sb := strings.Builder{}
	printStmt(&sb, s, depth)
	return sb.String()
}

func pad(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func printStmt(sb *strings.Builder, s Stmt, depth int) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *LetStmt:
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("let %s = %s\n", n.Name, PrintExpr(n.Value)))
		printStmt(sb, n.Body, depth)
	case *AssertStmt:
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("assert(%s, %q)\n", PrintExpr(n.Cond), n.Message))
	case *Pipeline:
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("produce %s {\n", n.Name))
		printStmt(sb, n.Produce, depth+1)
		if n.Update != nil {
			pad(sb, depth)
			sb.WriteString("update {\n")
			printStmt(sb, n.Update, depth+1)
		}
		pad(sb, depth)
		sb.WriteString("} consume {\n")
		printStmt(sb, n.Consume, depth+1)
		pad(sb, depth)
		sb.WriteString("}\n")
	case *For:
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("for %s %s in [%s, %s + %s) {\n",
			n.Typ, n.Name, PrintExpr(n.Min), PrintExpr(n.Min), PrintExpr(n.Extent)))
		printStmt(sb, n.Body, depth+1)
		pad(sb, depth)
		sb.WriteString("}\n")
	case *Store:
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("%s[%s] = %s\n", n.Buffer, PrintExpr(n.Index), PrintExpr(n.Value)))
	case *Provide:
		site := make([]string, len(n.Site))
		for i, e := range n.Site {
			site[i] = PrintExpr(e)
		}
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("%s(%s) = %s\n", n.Buffer, strings.Join(site, ", "), PrintExpr(n.Value)))
	case *Allocate:
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("allocate %s[%s] of %s {\n", n.Name, PrintExpr(n.Size), n.Typ))
		printStmt(sb, n.Body, depth+1)
		pad(sb, depth)
		sb.WriteString("}\n")
	case *Free:
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("free %s\n", n.Name))
	case *Realize:
		dims := make([]string, len(n.Bounds))
		for i, b := range n.Bounds {
			dims[i] = fmt.Sprintf("[%s, %s)", PrintExpr(b.Min), PrintExpr(b.Extent))
		}
		pad(sb, depth)
		sb.WriteString(fmt.Sprintf("realize %s %s of %s {\n", n.Name, strings.Join(dims, " x "), n.Typ))
		printStmt(sb, n.Body, depth+1)
		pad(sb, depth)
		sb.WriteString("}\n")
	case *Block:
		printStmt(sb, n.First, depth)
		printStmt(sb, n.Rest, depth)
	default:
		pad(sb, depth)
		sb.WriteString("<unknown stmt>\n")
	}
}
