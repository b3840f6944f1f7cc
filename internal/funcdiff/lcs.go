package funcdiff

// editScript returns the longest-common-subsequence edit script turning a
// into b. A modified line comes out as a Removed record directly followed by
// an Added one.
func editScript(a, b []string) []Record {
	// common prefix and suffix never need the table
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	records := make([]Record, 0, len(a)+len(b))
	for i := 0; i < pre; i++ {
		records = append(records, Record{Tag: Unchanged, Text: a[i], OldIndex: i, NewIndex: i})
	}

	ma, mb := a[pre:len(a)-suf], b[pre:len(b)-suf]
	records = append(records, middle(ma, mb, pre)...)

	for k := suf; k > 0; k-- {
		i, j := len(a)-k, len(b)-k
		records = append(records, Record{Tag: Unchanged, Text: a[i], OldIndex: i, NewIndex: j})
	}
	return records
}

func middle(a, b []string, offset int) []Record {
	n, m := len(a), len(b)
	// table[i][j] is the LCS length of a[i:] and b[j:]
	table := make([][]int32, n+1)
	for i := range table {
		table[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}

	records := make([]Record, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			records = append(records, Record{Tag: Unchanged, Text: a[i], OldIndex: offset + i, NewIndex: offset + j})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			records = append(records, Record{Tag: Removed, Text: a[i], OldIndex: offset + i, NewIndex: -1})
			i++
		default:
			records = append(records, Record{Tag: Added, Text: b[j], OldIndex: -1, NewIndex: offset + j})
			j++
		}
	}
	for ; i < n; i++ {
		records = append(records, Record{Tag: Removed, Text: a[i], OldIndex: offset + i, NewIndex: -1})
	}
	for ; j < m; j++ {
		records = append(records, Record{Tag: Added, Text: b[j], OldIndex: -1, NewIndex: offset + j})
	}
	return records
}
