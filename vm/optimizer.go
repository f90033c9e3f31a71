package vm

import "github.com/example/starbasic/parser"

// Optimize runs peephole passes over bco's instruction stream, gated by
// level (spec §4.2's optimisation_level, -1..3). Level -1 disables all
// passes (useful for debugging generated bytecode 1:1 against source);
// 0 is the floor every other level includes.
func Optimize(bco *BytecodeObject, level int) {
	if level < 0 {
		return
	}
	elideRedundantJumps(bco)
	if level >= 2 {
		foldPopAfterPush(bco)
	}
}

// elideRedundantJumps turns `Jump L` into a no-op when L is the very
// next instruction.
func elideRedundantJumps(bco *BytecodeObject) {
	for i, ins := range bco.Code {
		if ins.Major == parser.OpJump && int(ins.Arg) == i+1 {
			bco.Code[i] = Instruction{Major: parser.OpNop}
		}
	}
}

// foldPopAfterPush blanks a PushConst immediately followed by Pop into
// two Nops — the common residue of compiling an expression statement
// whose value is discarded (spec §4.2 level-2 optimisation). Blanking
// rather than removing keeps every instruction index stable, so jump
// targets patched earlier in the single compiler pass stay valid.
func foldPopAfterPush(bco *BytecodeObject) {
	for i := 0; i+1 < len(bco.Code); i++ {
		if bco.Code[i].Major == parser.OpPushConst && bco.Code[i+1].Major == parser.OpPop {
			bco.Code[i] = Instruction{Major: parser.OpNop}
			bco.Code[i+1] = Instruction{Major: parser.OpNop}
		}
	}
}
