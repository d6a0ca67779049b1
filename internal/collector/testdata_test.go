package collector

// newsPage mimics the layout of a finviz quote page.
const newsPage = `<html><body>
<table class="snapshot"><tr><td>P/E</td><td>42.1</td></tr></table>
<table id="news-table" class="fullview-news-outer">
  <tr>
    <td align="right" width="130">Jan-01-24 09:00AM&nbsp;&nbsp;</td>
    <td align="left"><div class="news-link-container"><a class="tab-link-news" href="https://example.com/1">Amazon beats expectations</a><span>(Reuters)</span></div></td>
  </tr>
  <tr>
    <td align="right" width="130">
      10:00AM
    </td>
    <td align="left"><a href="https://example.com/2">Amazon faces lawsuit</a></td>
  </tr>
  <tr>
    <td align="right">Jan-02-24 08:15AM</td>
    <td align="left"><a href="https://example.com/3">Amazon   expands
      logistics network</a></td>
  </tr>
</table>
</body></html>`
