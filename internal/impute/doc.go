// Package impute fills null table cells with column statistics: mean for
// numeric columns, mode for categorical ones.
package impute
