package report

const sampleReport = `Bullish Risk Reversal analysis for SRPT
Generated 2025-06-20

=== TOP RECOMMENDED TRADE ===
Expiration: 2025-11-21 (151 days)
Strikes: Long Call: $22.50, Short Put: $17.50

Net Cost: $0.20 DEBIT
Breakeven: $22.70

=== STRATEGY OVERVIEW & RISK ===
A Bullish Risk Reversal (Long OTM Call, Short OTM Put) creates a synthetic long stock position.
If the stock price falls below $17.50, you may be assigned 100 shares per contract.

=== PRICING COMPARISON (For debugging Robinhood discrepancy) ===
Current Method (Worst-case): $0.20 DEBIT
Mid-Price Method (Robinhood likely): $-0.10 CREDIT

=== TOP 5 COMBINATIONS ===
Rank | Expiration | Strikes | Net Cost | Net Vega | Efficiency | Score
-----|------------|---------|----------|----------|------------|------
1 | 2025-11-21 | $22.50/$17.50 | $0.20 DB | 0.005 | -4.0% | 0.973
2 | 2026-01-16 | $25.00/$17.50 | $0.30 DB | 0.007 | -8.0% | 0.664
3 | 2025-11-21 | $25.00/$17.50 | $0.40 CR | 0.005 | 5.3% | 0.658
`
