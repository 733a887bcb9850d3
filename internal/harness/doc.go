// Package harness runs query scenarios against IR modules and compares the
// outcome with expectations and golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	files:
//	  - ../ir/arith.ll          # relative to the scenario file
//	modules:
//	  - name: inline.ll
//	    source: |
//	      define i32 @f(i32 %x) { ... }
//	steps:
//	  - query: "SELECT function_name FROM instructions WHERE m_inst(instruction, m_add())"
//	    expect:
//	      columns: [function_name]
//	      rows:
//	        - [f]
//	  - query: "SELECT nope FROM instructions"
//	    expect:
//	      error: E201
//	assertions:
//	  - type: row_count
//	    step: 0
//	    count: 1
//
// Rows are compared by the printed form of each value, so an instruction
// is written as its source line and NULL as Null.
//
// # Assertion Types
//
//   - row_count: the step produced exactly count rows
//   - contains_row: some row of the step equals row
//   - column_values: the named column holds exactly values, in order
//   - error_code: the step failed with the given error code
//
// # Deterministic Testing
//
// Every scenario runs with a step clock, fixed run ids and a fresh
// in-memory history store. Results are read back from the store before
// they are compared, so a scenario also checks what "llql history show"
// would print.
package harness
