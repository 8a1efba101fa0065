package rate

import (
	"errors"
	"math"
	"testing"
)

func constEnv(tokens map[string]float64, t float64) Env {
	return Env{Tokens: func(id string) float64 { return tokens[id] }, Time: t}
}

func TestCompileAndEvalArithmetic(t *testing.T) {
	prog, err := Compile("2 + 3 * 4 - 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := prog.Eval(Env{})
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if v != 13 {
		t.Fatalf("expected 13, got %v", v)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	prog, err := Compile("2 ** 3 ** 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := prog.Eval(Env{})
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if v != 512 { // 2 ** (3 ** 2) == 2 ** 9
		t.Fatalf("expected 512, got %v", v)
	}
}

func TestMassActionExpression(t *testing.T) {
	prog, err := Compile("0.3*P_S*P_I/100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := constEnv(map[string]float64{"S": 99, "I": 1}, 0)
	v, err := prog.Eval(env)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	want := 0.3 * 99 * 1 / 100
	if math.Abs(v-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

func TestIdentifiersExtractsPlaceAliases(t *testing.T) {
	prog, err := Compile("beta*P_S*P_I/N + time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := prog.Identifiers()
	want := map[string]bool{"S": true, "I": true}
	if len(ids) != 2 {
		t.Fatalf("expected 2 identifiers, got %v", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Fatalf("unexpected identifier %q in %v", id, ids)
		}
	}
}

func TestTernaryConditional(t *testing.T) {
	prog, err := Compile("10 if P_gate > 0 else 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	open, err := prog.Eval(constEnv(map[string]float64{"gate": 1}, 0))
	if err != nil || open != 10 {
		t.Fatalf("expected 10, got %v err %v", open, err)
	}
	closed, err := prog.Eval(constEnv(map[string]float64{"gate": 0}, 0))
	if err != nil || closed != 0 {
		t.Fatalf("expected 0, got %v err %v", closed, err)
	}
}

func TestWhitelistFunctions(t *testing.T) {
	prog, err := Compile("min(3, 1, 2) + max(3, 1, 2) + sqrt(16)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := prog.Eval(Env{})
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if v != 1+3+4 {
		t.Fatalf("expected 8, got %v", v)
	}
}

func TestUnknownFunctionRejectedAtCompile(t *testing.T) {
	if _, err := Compile("eval(1)"); !errors.Is(err, ErrUnknownFunc) {
		t.Fatalf("expected ErrUnknownFunc, got %v", err)
	}
}

func TestWrongArityRejectedAtCompile(t *testing.T) {
	if _, err := Compile("pow(2)"); !errors.Is(err, ErrWrongArgCount) {
		t.Fatalf("expected ErrWrongArgCount, got %v", err)
	}
}

func TestAttributeAccessIsNotGrammar(t *testing.T) {
	if _, err := Compile("P_x.tokens"); err == nil {
		t.Fatalf("expected a parse error for attribute access")
	}
}

func TestEmptyExpressionRejected(t *testing.T) {
	if _, err := Compile("   "); !errors.Is(err, ErrEmptyExpr) {
		t.Fatalf("expected ErrEmptyExpr, got %v", err)
	}
}

func TestNonFiniteResultIsError(t *testing.T) {
	prog, err := Compile("1/P_zero")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = prog.Eval(constEnv(map[string]float64{"zero": 0}, 0))
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
}

func TestCompileIsReusableAcrossEvals(t *testing.T) {
	prog, err := Compile("P_x * time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := constEnv(map[string]float64{"x": 2}, 3)
	for i := 0; i < 3; i++ {
		v, err := prog.Eval(env)
		if err != nil || v != 6 {
			t.Fatalf("expected 6, got %v err %v", v, err)
		}
	}
}
