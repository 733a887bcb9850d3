// Package llql parses query text into queryir statements.
//
// The language is a small SELECT dialect over the instructions table:
//
//	SELECT function_name, count(*) AS n
//	FROM instructions
//	WHERE m_inst(instruction, m_c_add(m_const_int(), m_any_inst()))
//	GROUP BY function_name
//	ORDER BY n DESC
//	LIMIT 10;
//
// Keywords are case-insensitive. Function names are folded to lower case;
// column names are kept as written and resolved by the engine. Comments run
// from -- to the end of the line.
package llql
