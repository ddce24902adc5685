// Package misinfo scores model responses for misinformation risk.
// Absolute claims, guarantees and dismissive comparisons raise the
// score; hedging language lowers it. Responses crossing the risk
// threshold are rejected, and EnhanceReliability softens the ones that
// pass but promise too much.
package misinfo
